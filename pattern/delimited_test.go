package pattern

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDelimited(t *testing.T) {
	// Arrange
	type testcase struct {
		input        string
		expectedBody string
		expectedMods Modifiers
	}
	tests := []testcase{
		{`/a+b/`, `a+b`, Modifiers{}},
		{`/a+b/i`, `a+b`, Modifiers{CaseInsensitive: true}},
		{`~x~msxuUADn`, `x`, Modifiers{Multiline: true, DotAll: true, Extended: true, UTF: true, Ungreedy: true, Anchored: true, DollarEndOnly: true, NoAutoCapture: true}},
		{`#a\#b#`, `a\#b`, Modifiers{}},
		{`{a{2}}x`, `a{2}`, Modifiers{Extended: true}},
		{`(a(b)c)`, `a(b)c`, Modifiers{}},
		{`[a\]]`, `a\]`, Modifiers{}},
		{"  /a/", `a`, Modifiers{}},
		{"/a/ i\n", `a`, Modifiers{CaseInsensitive: true}},
		{`/a/SXJ`, `a`, Modifiers{}},
		{`//`, ``, Modifiers{}},
		{`§ä§`, `ä`, Modifiers{}},
	}

	// Act and assert
	var b strings.Builder
	for i, test := range tests {
		d, err := ParseDelimited(test.input, PCREModifiers)
		if err != nil {
			fmt.Fprintf(&b, "Unexpected error %d: %v\n", i, err)
			continue
		}

		if d.Body != test.expectedBody {
			fmt.Fprintf(&b, "Unexpected body %d. Expected: %s. Actual: %s.\n", i, test.expectedBody, d.Body)
		}

		if d.Modifiers != test.expectedMods {
			fmt.Fprintf(&b, "Unexpected modifiers %d. Expected: %+v. Actual: %+v.\n", i, test.expectedMods, d.Modifiers)
		}
	}

	if b.Len() > 0 {
		t.Fatalf("%s", b.String())
	}
}

func TestParseDelimitedErrors(t *testing.T) {
	// Arrange
	type testcase struct {
		input         string
		allowed       string
		expectedError string
	}
	tests := []testcase{
		{``, PCREModifiers, `Empty regular expression`},
		{"  \n", PCREModifiers, `Empty regular expression`},
		{`abc`, PCREModifiers, `Delimiter must not be alphanumeric, backslash, or NUL`},
		{`\a\`, PCREModifiers, `Delimiter must not be alphanumeric, backslash, or NUL`},
		{"\x00a\x00", PCREModifiers, `Delimiter must not be alphanumeric, backslash, or NUL`},
		{`/abc`, PCREModifiers, `No ending delimiter '/' found`},
		{`/abc\/`, PCREModifiers, `No ending delimiter '/' found`},
		{`(abc`, PCREModifiers, `No ending matching delimiter ')' found`},
		{`{a{b}`, PCREModifiers, `No ending matching delimiter '}' found`},
		{`/a/Q`, PCREModifiers, `Unknown modifier 'Q'`},
		{`/a/g`, PCREModifiers, `Unknown modifier 'g'`},
		{`/a/x`, RE2Modifiers, `Unknown modifier 'x'`},
		{"/a/\x00", PCREModifiers, `NUL is not a valid modifier`},
	}

	// Act and assert
	var b strings.Builder
	for i, test := range tests {
		_, err := ParseDelimited(test.input, test.allowed)

		if err == nil {
			fmt.Fprintf(&b, "Expected error but got nil for %v\n", i)
			continue
		}

		if err.Error() != test.expectedError {
			fmt.Fprintf(&b, "Unexpected error %v: %v\n", i, err)
		}
	}

	if b.Len() > 0 {
		t.Fatalf("%s", b.String())
	}
}

func TestParseDelimitedRE2Modifiers(t *testing.T) {
	// Act
	d, err := ParseDelimited(`/a/imsuU`, RE2Modifiers)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, Modifiers{CaseInsensitive: true, Multiline: true, DotAll: true, UTF: true, Ungreedy: true}, d.Modifiers)
}
