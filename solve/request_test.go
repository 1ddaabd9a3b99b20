package solve

import (
	"errors"
	"testing"

	"regexsolver/engine"
	"regexsolver/offset"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRequestSingleText(t *testing.T) {
	// Arrange
	data := []byte(`{"id":7,"pattern":"a(b)c","delimiter":"/","flags":"gi","text":"xxabcyy"}`)

	// Act
	r, err := DecodeRequest(data)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, "7", string(r.ID))
	assert.Equal(t, "a(b)c", r.Pattern.Pattern)
	assert.Equal(t, "/", r.Pattern.Delimiter)
	assert.Equal(t, "i", r.Pattern.Modifiers)
	assert.True(t, r.Pattern.Global)
	assert.Equal(t, engine.PCRE, r.Flavor)
	assert.Equal(t, offset.CodePoint, r.Unit)
	assert.Equal(t, SingleText{Text: "xxabcyy"}, r.Mode)
}

func TestDecodeRequestModes(t *testing.T) {
	type testcase struct {
		data     string
		expected Mode
	}
	tests := []testcase{
		{`{"pattern":"a","delimiter":"/","text":"a"}`, SingleText{Text: "a"}},
		{`{"pattern":"a","delimiter":"/","text":"a","mode":"text"}`, SingleText{Text: "a"}},
		{`{"pattern":"a","delimiter":"/","text":"a","mode":"bogus"}`, SingleText{Text: "a"}},
		{`{"pattern":"a","delimiter":"/","mode":"tests"}`, BatchTests{Tests: []TextSample{}}},
		{`{"pattern":"a","delimiter":"/","mode":"tests","tests":[{"id":"x","text":"a"},{"id":{"k":1},"text":"b"}]}`, BatchTests{Tests: []TextSample{
			{ID: []byte(`"x"`), Text: "a"},
			{ID: []byte(`{"k":1}`), Text: "b"},
		}}},
	}

	for _, test := range tests {
		// Act
		r, err := DecodeRequest([]byte(test.data))

		// Assert
		assert.Nil(t, err, test.data)
		assert.Equal(t, test.expected, r.Mode, test.data)
	}
}

func TestDecodeRequestTools(t *testing.T) {
	type testcase struct {
		tool     string
		expected Tool
	}
	tests := []testcase{
		{`{"id":"replace","input":"X"}`, ReplaceTool{Input: "X"}},
		{`{"id":"REPLACE","input":"X"}`, ReplaceTool{Input: "X"}},
		{`{"id":"List","input":"$1"}`, ListTool{Input: "$1"}},
		{`{"id":"explain","input":"$1"}`, nil},
		{`null`, nil},
	}

	for _, test := range tests {
		// Act
		r, err := DecodeRequest([]byte(`{"pattern":"a","delimiter":"/","tool":` + test.tool + `}`))

		// Assert
		assert.Nil(t, err)
		assert.Equal(t, test.expected, r.Mode.(SingleText).Tool, test.tool)
	}
}

func TestDecodeRequestMissingFields(t *testing.T) {
	// Act
	r, err := DecodeRequest([]byte(`{}`))

	// Assert
	assert.Nil(t, err)
	assert.Nil(t, r.ID)
	assert.Equal(t, "", r.Pattern.Expression())
	assert.Equal(t, SingleText{}, r.Mode)
}

func TestDecodeRequestFlavorAndUnit(t *testing.T) {
	// Act
	r, err := DecodeRequest([]byte(`{"pattern":"a","delimiter":"/","flavor":"re2","unit":"utf16"}`))

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, engine.RE2, r.Flavor)
	assert.Equal(t, offset.UTF16, r.Unit)
}

func TestDecodeRequestErrors(t *testing.T) {
	type testcase struct {
		data     string
		expected error
	}
	tests := []testcase{
		{`{"pattern":`, ErrInvalidJSON},
		{`not json`, ErrInvalidJSON},
		{``, ErrInvalidJSON},
		{`[1,2]`, ErrInvalidRequest},
		{`{"pattern":5}`, ErrInvalidRequest},
		{`{"tests":"abc","mode":"tests"}`, ErrInvalidRequest},
		{`{"flavor":"perl"}`, ErrInvalidRequest},
		{`{"unit":"bytes"}`, ErrInvalidRequest},
	}

	for _, test := range tests {
		// Act
		_, err := DecodeRequest([]byte(test.data))

		// Assert
		assert.True(t, errors.Is(err, test.expected), "data %q: %v", test.data, err)
	}
}

func TestDecodeRequestWithDefaults(t *testing.T) {
	// Arrange
	defaults := Defaults{Flavor: engine.RE2, Unit: offset.Grapheme}

	// Act
	implicit, err1 := DecodeRequestWithDefaults([]byte(`{"pattern":"a","delimiter":"/"}`), defaults)
	explicit, err2 := DecodeRequestWithDefaults([]byte(`{"pattern":"a","delimiter":"/","flavor":"pcre","unit":"utf16"}`), defaults)

	// Assert
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.Equal(t, engine.RE2, implicit.Flavor)
	assert.Equal(t, offset.Grapheme, implicit.Unit)
	assert.Equal(t, engine.PCRE, explicit.Flavor)
	assert.Equal(t, offset.UTF16, explicit.Unit)
}
