package solve

import (
	"regexsolver/offset"
)

// MatchEntry is one match occurrence with the groups that participated in it, in group order.
type MatchEntry struct {
	offset.Span
	Groups []offset.Span `json:"groups"`
}

// buildMatchEntry translates one byte-offset match location. Groups that did not participate are skipped.
func buildMatchEntry(tr *offset.Translator, loc []int) MatchEntry {
	e := MatchEntry{
		Span:   tr.ToCharSpan(loc[0], loc[1]-loc[0]),
		Groups: []offset.Span{},
	}

	for g := 2; g+1 < len(loc); g += 2 {
		if loc[g] < 0 {
			continue
		}
		e.Groups = append(e.Groups, tr.ToCharSpan(loc[g], loc[g+1]-loc[g]))
	}

	return e
}

// buildMatchEntries builds one MatchEntry per match, in match order.
func buildMatchEntries(text string, unit offset.Unit, matches [][]int) []MatchEntry {
	entries := make([]MatchEntry, 0, len(matches))
	if len(matches) == 0 {
		return entries
	}

	tr := offset.NewTranslator(text, unit)
	for _, loc := range matches {
		entries = append(entries, buildMatchEntry(tr, loc))
	}

	return entries
}
