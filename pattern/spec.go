package pattern

import (
	"strings"
)

// GlobalFlag is the modifier that selects find-all matching. Engines do not know it;
// it only decides which matching primitive is called.
const GlobalFlag = 'g'

// Spec describes a pattern as received from a client, ready to be handed to an engine.
type Spec struct {
	Pattern   string
	Delimiter string

	// Modifiers never contains GlobalFlag once the Spec was built by NewSpec.
	Modifiers string
	Global    bool
}

// NewSpec creates a Spec. If the modifiers contain the global flag, exactly one
// occurrence of it is removed and Global is set.
func NewSpec(pattern string, delimiter string, modifiers string) Spec {
	s := Spec{
		Pattern:   pattern,
		Delimiter: delimiter,
		Modifiers: modifiers,
	}

	if i := strings.IndexByte(modifiers, GlobalFlag); i >= 0 {
		s.Modifiers = modifiers[:i] + modifiers[i+1:]
		s.Global = true
	}

	return s
}

// Expression returns the pattern wrapped in its delimiter, followed by the modifiers.
func (s Spec) Expression() string {
	return s.Delimiter + s.Pattern + s.Delimiter + s.Modifiers
}

// WithGlobal returns a copy of the Spec with Global set to g.
func (s Spec) WithGlobal(g bool) Spec {
	s.Global = g
	return s
}
