package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TranslatePCRE rewrites a PCRE pattern body into the dialect of the backtracking engine
// used for the pcre flavor, so that the engine behaves the way PCRE would:
//   - capture groups are numbered by the position of their opening parenthesis, named
//     groups included, and named groups become plain groups;
//   - named and relative backreferences become numbered backreferences;
//   - possessive quantifiers become atomic groups around the quantified item;
//   - \Q...\E, \x{...}, \h, \v, \R, \N and POSIX bracket classes are expanded;
//   - the U, D, A and n modifiers are applied to the pattern text.
func TranslatePCRE(body string, m Modifiers) (expr string, err error) {
	return translatePCRE(body, m, false)
}

// ApproximatePCRE is TranslatePCRE with possessive quantifiers reduced to plain ones.
// The result matches every string the pattern matches, and possibly more.
func ApproximatePCRE(body string, m Modifiers) (expr string, err error) {
	return translatePCRE(body, m, true)
}

func translatePCRE(body string, m Modifiers, dropPossessive bool) (expr string, err error) {
	// The first pass only numbers the groups, so that forward references to named groups can be resolved.
	numbering := newPCRETranslator(body, m, make(map[string]int))
	if err = numbering.run(); err != nil {
		return
	}

	t := newPCRETranslator(body, m, numbering.names)
	t.resolve = true
	t.dropPossessive = dropPossessive
	if err = t.run(); err != nil {
		return
	}

	expr = t.out.String()
	if m.Anchored {
		// In extended mode a trailing comment would swallow the closing parenthesis.
		if m.Extended {
			expr += "\n"
		}
		expr = `\G(?:` + expr + `)`
	}

	return
}

type pcreTranslator struct {
	src            string
	pos            int
	mods           Modifiers
	names          map[string]int
	resolve        bool
	dropPossessive bool
	groups         int
	out            strings.Builder

	// lastAtom is the output offset of the item a following quantifier applies to, or -1.
	lastAtom int

	// openGroups holds the output offsets of the groups not closed yet.
	openGroups []int
}

func newPCRETranslator(src string, m Modifiers, names map[string]int) *pcreTranslator {
	return &pcreTranslator{src: src, mods: m, names: names, lastAtom: -1}
}

func (t *pcreTranslator) run() (err error) {
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		start := t.out.Len()
		switch {
		case c == '\\':
			err = t.escape()
		case c == '[':
			t.class()
			t.lastAtom = start
		case c == '(':
			err = t.group()
		case c == ')':
			t.closeGroup()
		case c == '*' || c == '+' || c == '?':
			t.copy(1)
			t.quantifierSuffix()
		case c == '{' && quantifierLen(t.src[t.pos:]) > 0:
			t.copy(quantifierLen(t.src[t.pos:]))
			t.quantifierSuffix()
		case c == '$' && t.mods.DollarEndOnly && !t.mods.Multiline:
			t.out.WriteString(`\z`)
			t.pos++
			t.lastAtom = start
		case c == '#' && t.mods.Extended:
			n := strings.IndexByte(t.src[t.pos:], '\n')
			if n < 0 {
				n = len(t.src) - t.pos - 1
			}
			t.copy(n + 1)
		case c == '|':
			t.copy(1)
			t.lastAtom = -1
		case t.mods.Extended && isPatternSpace(c):
			t.copy(1)
		default:
			_, n := utf8.DecodeRuneInString(t.src[t.pos:])
			t.copy(n)
			t.lastAtom = start
		}

		if err != nil {
			return
		}
	}

	return
}

// isPatternSpace reports whether c is skipped in extended mode.
func isPatternSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func (t *pcreTranslator) copy(n int) {
	t.out.WriteString(t.src[t.pos : t.pos+n])
	t.pos += n
}

// quantifierSuffix handles the lazy and possessive markers following a quantifier.
func (t *pcreTranslator) quantifierSuffix() {
	lazy := false
	if t.pos < len(t.src) {
		switch t.src[t.pos] {
		case '+':
			t.pos++
			if !t.dropPossessive {
				t.possessive()
			}
			return
		case '?':
			t.pos++
			lazy = true
		}
	}

	if lazy != t.mods.Ungreedy {
		t.out.WriteByte('?')
	}
}

// possessive wraps the last quantified item in an atomic group, so the engine never backtracks into it.
func (t *pcreTranslator) possessive() {
	if t.lastAtom < 0 {
		return
	}

	s := t.out.String()
	t.out.Reset()
	t.out.WriteString(s[:t.lastAtom])
	t.out.WriteString("(?>")
	t.out.WriteString(s[t.lastAtom:])
	t.out.WriteByte(')')
}

// quantifierLen returns the length of a {n}, {n,} or {n,m} quantifier at the start of s, or 0.
func quantifierLen(s string) int {
	i := 1
	digits := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && s[i] == ',' {
		i++
		for i < len(s) && '0' <= s[i] && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && s[i] == '}' {
		return i + 1
	}
	return 0
}

func (t *pcreTranslator) group() (err error) {
	start := t.out.Len()
	rest := t.src[t.pos:]
	switch {
	case strings.HasPrefix(rest, "(?#"):
		n := strings.IndexByte(rest, ')')
		if n < 0 {
			n = len(rest) - 1
		}
		t.copy(n + 1)
		return

	case strings.HasPrefix(rest, "(?P="):
		n := strings.IndexByte(rest, ')')
		if n < 0 {
			t.copy(len(rest))
			return
		}
		name := rest[len("(?P="):n]
		t.pos += n + 1
		err = t.backrefByName(name)
		t.lastAtom = start
		return

	case strings.HasPrefix(rest, "(?<") && !strings.HasPrefix(rest, "(?<=") && !strings.HasPrefix(rest, "(?<!"):
		t.namedGroup(len("(?<"), '>')

	case strings.HasPrefix(rest, "(?P<"):
		t.namedGroup(len("(?P<"), '>')

	case strings.HasPrefix(rest, "(?'"):
		t.namedGroup(len("(?'"), '\'')

	case strings.HasPrefix(rest, "(?") || strings.HasPrefix(rest, "(*"):
		t.copy(2)

	default:
		t.groups++
		t.pos++
		if t.mods.NoAutoCapture {
			t.out.WriteString("(?:")
		} else {
			t.out.WriteByte('(')
		}
	}

	t.openGroups = append(t.openGroups, start)
	t.lastAtom = -1
	return
}

// closeGroup copies a closing parenthesis. The whole group becomes the quantifiable item.
func (t *pcreTranslator) closeGroup() {
	t.copy(1)
	t.lastAtom = -1
	if n := len(t.openGroups); n > 0 {
		t.lastAtom = t.openGroups[n-1]
		t.openGroups = t.openGroups[:n-1]
	}
}

func (t *pcreTranslator) namedGroup(prefixLen int, closing byte) {
	rest := t.src[t.pos+prefixLen:]
	n := strings.IndexByte(rest, closing)
	if n <= 0 || !isGroupName(rest[:n]) {
		// Let the engine report the malformed group.
		t.copy(prefixLen)
		return
	}

	t.groups++
	if _, exists := t.names[rest[:n]]; !exists && !t.resolve {
		t.names[rest[:n]] = t.groups
	}

	t.out.WriteByte('(')
	t.pos += prefixLen + n + 1
}

func isGroupName(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return s != ""
}

const (
	horizontalSpace = `\t\x20\xA0\x{1680}\x{180E}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}`
	verticalSpace   = `\n\x0B\f\r\x85\x{2028}\x{2029}`
)

// spaceEscapes expands the PCRE escapes the engine lacks or reads differently.
var spaceEscapes = map[byte]string{
	'h': `[` + horizontalSpace + `]`,
	'H': `[^` + horizontalSpace + `]`,
	'v': `[` + verticalSpace + `]`,
	'V': `[^` + verticalSpace + `]`,
	'R': `(?:\r\n|[` + verticalSpace + `])`,
	'N': `[^\n]`,
}

func (t *pcreTranslator) escape() (err error) {
	rest := t.src[t.pos:]
	switch {
	case strings.HasPrefix(rest, `\Q`):
		t.quoted()
	case strings.HasPrefix(rest, `\E`):
		t.pos += 2
	default:
		start := t.out.Len()
		err = t.atomEscape()
		t.lastAtom = start
	}

	return
}

func (t *pcreTranslator) atomEscape() (err error) {
	rest := t.src[t.pos:]
	if len(rest) < 2 {
		t.copy(len(rest))
		return
	}

	if expansion, ok := spaceEscapes[rest[1]]; ok {
		t.out.WriteString(expansion)
		t.pos += 2
		return
	}

	switch rest[1] {
	case 'x':
		if !t.hexLiteral() {
			t.copy(2)
		}

	case 'k':
		closing := map[byte]byte{'<': '>', '\'': '\'', '{': '}'}
		if len(rest) > 2 {
			if c, ok := closing[rest[2]]; ok {
				if n := strings.IndexByte(rest[3:], c); n > 0 {
					t.pos += 3 + n + 1
					err = t.backrefByName(rest[3 : 3+n])
					return
				}
			}
		}
		t.copy(2)

	case 'g':
		ref := ""
		if len(rest) > 2 && rest[2] == '{' {
			if n := strings.IndexByte(rest[3:], '}'); n > 0 {
				ref = rest[3 : 3+n]
				t.pos += 3 + n + 1
			}
		} else {
			i := 2
			if i < len(rest) && rest[i] == '-' {
				i++
			}
			for i < len(rest) && '0' <= rest[i] && rest[i] <= '9' {
				i++
			}
			if i > 2 && rest[i-1] != '-' {
				ref = rest[2:i]
				t.pos += i
			}
		}

		if ref == "" {
			t.copy(2)
			return
		}

		if n, convErr := strconv.Atoi(ref); convErr == nil {
			err = t.backrefByNumber(n)
		} else {
			err = t.backrefByName(ref)
		}

	default:
		t.copy(2)
	}

	return
}

func (t *pcreTranslator) backrefByName(name string) error {
	if !t.resolve {
		return nil
	}

	n, ok := t.names[name]
	if !ok {
		return fmt.Errorf("Compilation failed: reference to non-existent subpattern")
	}

	t.writeBackref(n)
	return nil
}

func (t *pcreTranslator) backrefByNumber(n int) error {
	if n < 0 {
		// Relative reference, counted backwards from the most recently opened group.
		n = t.groups + n + 1
	}

	if n <= 0 {
		return fmt.Errorf("Compilation failed: a numbered reference must not be zero")
	}

	t.writeBackref(n)
	return nil
}

func (t *pcreTranslator) writeBackref(n int) {
	// Wrapped so a following digit is not read as part of the group number.
	fmt.Fprintf(&t.out, `(?:\%d)`, n)
}

// quoted expands \Q...\E into escaped literal text.
func (t *pcreTranslator) quoted() {
	t.pos += 2
	rest := t.src[t.pos:]
	lit := rest
	if n := strings.Index(rest, `\E`); n >= 0 {
		lit = rest[:n]
		t.pos += n + 2
	} else {
		t.pos = len(t.src)
	}

	// A quantifier after \E applies to the last quoted character only.
	for _, r := range lit {
		t.lastAtom = t.out.Len()
		t.out.WriteString(literal(r))
	}
}

// hexLiteral expands \x{HHHH}. It returns false if the escape is not of that form.
func (t *pcreTranslator) hexLiteral() bool {
	rest := t.src[t.pos:]
	if len(rest) < 3 || rest[2] != '{' {
		return false
	}

	n := strings.IndexByte(rest, '}')
	if n < 0 {
		return false
	}

	v, err := strconv.ParseUint(rest[3:n], 16, 32)
	if err != nil || v > unicode.MaxRune {
		return false
	}

	t.out.WriteString(literal(rune(v)))
	t.pos += n + 1
	return true
}

// literal returns r written so that the engine matches it literally, both inside and outside classes.
func literal(r rune) string {
	switch {
	case r < utf8.RuneSelf && (r <= ' ' || r == 0x7f):
		return fmt.Sprintf(`\x%02X`, r)
	case r < utf8.RuneSelf && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9'):
		return `\` + string(r)
	case unicode.IsSpace(r) && r <= 0xFFFF:
		return fmt.Sprintf(`\u%04X`, r)
	}
	return string(r)
}

var posixClasses = map[string]string{
	"alpha":  `a-zA-Z`,
	"digit":  `0-9`,
	"alnum":  `a-zA-Z0-9`,
	"upper":  `A-Z`,
	"lower":  `a-z`,
	"space":  `\s`,
	"word":   `\w`,
	"xdigit": `0-9A-Fa-f`,
	"blank":  `\x20\t`,
	"cntrl":  `\x00-\x1F\x7F`,
	"print":  `\x20-\x7E`,
	"graph":  `\x21-\x7E`,
	"punct":  `!-/:-@\[-\x60{-~`,
	"ascii":  `\x00-\x7F`,
}

// class copies a character class, expanding the constructs the engine does not know.
func (t *pcreTranslator) class() {
	t.copy(1)
	if t.pos < len(t.src) && t.src[t.pos] == '^' {
		t.copy(1)
	}
	if t.pos < len(t.src) && t.src[t.pos] == ']' {
		t.out.WriteString(`\]`)
		t.pos++
	}

	for t.pos < len(t.src) {
		rest := t.src[t.pos:]
		switch {
		case rest[0] == ']':
			t.copy(1)
			return

		case strings.HasPrefix(rest, `\Q`):
			t.quoted()

		case strings.HasPrefix(rest, `\E`):
			t.pos += 2

		case strings.HasPrefix(rest, `\x{`):
			if !t.hexLiteral() {
				t.copy(2)
			}

		case strings.HasPrefix(rest, `\h`):
			t.out.WriteString(horizontalSpace)
			t.pos += 2

		case strings.HasPrefix(rest, `\v`):
			t.out.WriteString(verticalSpace)
			t.pos += 2

		case rest[0] == '\\' && len(rest) > 1:
			t.copy(2)

		case strings.HasPrefix(rest, "[:"):
			n := strings.Index(rest, ":]")
			if n < 0 {
				t.copy(1)
				continue
			}
			if expansion, ok := posixClasses[rest[2:n]]; ok {
				t.out.WriteString(expansion)
				t.pos += n + 2
			} else {
				t.copy(n + 2)
			}

		default:
			t.copy(1)
		}
	}
}
