package solve

import (
	"encoding/json"
	"unicode/utf8"

	"regexsolver/engine"
	"regexsolver/offset"
	"regexsolver/pattern"
)

// TestOutcome is the result for one sample of a batch: matched (Span set), failed (Error set), or neither.
type TestOutcome struct {
	ID    json.RawMessage
	Span  *offset.Span
	Error *engine.Error
}

// MarshalJSON writes {"id","i"?,"l"?,"error"?}.
func (o TestOutcome) MarshalJSON() ([]byte, error) {
	w := struct {
		ID    json.RawMessage `json:"id"`
		I     *int            `json:"i,omitempty"`
		L     *int            `json:"l,omitempty"`
		Error *engine.Error   `json:"error,omitempty"`
	}{ID: o.ID, Error: o.Error}

	if w.ID == nil {
		w.ID = json.RawMessage("null")
	}

	if o.Span != nil {
		w.I = &o.Span.Offset
		w.L = &o.Span.Length
	}

	return json.Marshal(w)
}

// runTests runs the pattern against every sample in order. Samples the prefilter rules out are
// reported as no-match without invoking the engine. pf may be nil.
func runTests(inv engine.Invoker, pf engine.Prefilter, spec pattern.Spec, unit offset.Unit, tests []TextSample) []TestOutcome {
	outcomes := make([]TestOutcome, 0, len(tests))

	for _, t := range tests {
		o := TestOutcome{ID: t.ID}

		if pf != nil && utf8.ValidString(t.Text) && !pf.MayMatch(t.Text) {
			outcomes = append(outcomes, o)
			continue
		}

		r := inv.Invoke(spec, t.Text)
		switch r.Kind {
		case engine.Matched:
			loc := r.Matches[0]
			s := offset.NewTranslator(t.Text, unit).ToCharSpan(loc[0], loc[1]-loc[0])
			o.Span = &s
		case engine.Failed:
			o.Error = r.Err
		}

		outcomes = append(outcomes, o)
	}

	return outcomes
}
