package solve

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"regexsolver/engine"
	"regexsolver/offset"
	"regexsolver/pattern"
)

var (
	// ErrInvalidJSON is returned when a request is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidRequest is returned when a request is JSON but does not have the expected shape.
	ErrInvalidRequest = errors.New("invalid request")
)

// TextSample is one candidate string of a batch.
type TextSample struct {
	ID   json.RawMessage `json:"id"`
	Text string          `json:"text"`
}

// Tool is a post-processing tool: ReplaceTool or ListTool.
type Tool interface {
	toolID() string
}

// ReplaceTool substitutes matches in the text with a template.
type ReplaceTool struct {
	Input string
}

// ListTool concatenates the template expanded for every match.
type ListTool struct {
	Input string
}

func (ReplaceTool) toolID() string { return "replace" }
func (ListTool) toolID() string    { return "list" }

// Mode is what a request asks for: SingleText or BatchTests.
type Mode interface {
	modeName() string
}

// SingleText matches one text and optionally runs a tool on it.
type SingleText struct {
	Text string
	Tool Tool // nil if no tool was requested
}

// BatchTests matches many independent texts.
type BatchTests struct {
	Tests []TextSample
}

// Mode names as they appear on the wire.
const (
	ModeText  = "text"
	ModeTests = "tests"
)

func (SingleText) modeName() string { return ModeText }
func (BatchTests) modeName() string { return ModeTests }

// Request is a decoded solve request.
type Request struct {
	ID      json.RawMessage
	Pattern pattern.Spec
	Flavor  engine.Flavor
	Unit    offset.Unit
	Mode    Mode
}

type wireTool struct {
	ID    string `json:"id"`
	Input string `json:"input"`
}

type wireRequest struct {
	ID        json.RawMessage `json:"id"`
	Pattern   string          `json:"pattern"`
	Delimiter string          `json:"delimiter"`
	Flags     string          `json:"flags"`
	Text      string          `json:"text"`
	Tool      *wireTool       `json:"tool"`
	Mode      string          `json:"mode"`
	Tests     []TextSample    `json:"tests"`
	Flavor    string          `json:"flavor"`
	Unit      string          `json:"unit"`
}

// Defaults are applied to requests that do not name a flavor or a unit.
type Defaults struct {
	Flavor engine.Flavor
	Unit   offset.Unit
}

// DecodeRequest decodes a JSON solve request. Missing string fields are empty; any mode other
// than "tests" selects SingleText, and unknown tool ids mean no tool.
func DecodeRequest(data []byte) (r Request, err error) {
	return DecodeRequestWithDefaults(data, Defaults{})
}

// DecodeRequestWithDefaults is DecodeRequest with configurable flavor and unit defaults.
func DecodeRequestWithDefaults(data []byte, defaults Defaults) (r Request, err error) {
	var w wireRequest
	if err = json.Unmarshal(data, &w); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || !json.Valid(data) {
			err = fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		} else {
			err = fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return
	}

	if w.Flavor == "" {
		w.Flavor = string(defaults.Flavor)
	}
	if w.Unit == "" {
		w.Unit = string(defaults.Unit)
	}

	r.Flavor, err = engine.ParseFlavor(w.Flavor)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		return
	}

	r.Unit, err = offset.ParseUnit(w.Unit)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		return
	}

	r.ID = w.ID
	r.Pattern = pattern.NewSpec(w.Pattern, w.Delimiter, w.Flags)

	if w.Mode == ModeTests {
		tests := w.Tests
		if tests == nil {
			tests = []TextSample{}
		}
		r.Mode = BatchTests{Tests: tests}
		return
	}

	st := SingleText{Text: w.Text}
	if w.Tool != nil {
		switch strings.ToLower(w.Tool.ID) {
		case "replace":
			st.Tool = ReplaceTool{Input: w.Tool.Input}
		case "list":
			st.Tool = ListTool{Input: w.Tool.Input}
		}
	}
	r.Mode = st

	return
}
