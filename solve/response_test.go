package solve

import (
	"encoding/json"
	"testing"
	"time"

	"regexsolver/engine"

	"github.com/stretchr/testify/assert"
)

func TestResponseMarshalJSON(t *testing.T) {
	type testcase struct {
		resp     Response
		expected string
	}
	tests := []testcase{
		{
			Response{Timestamp: 1, Time: 0.0012, Mode: ModeText},
			`{"id":null,"timestamp":1,"time":0.0012,"mode":"text","matches":[]}`,
		},
		{
			Response{ID: json.RawMessage(`"abc"`), Timestamp: 1, Mode: ModeTests},
			`{"id":"abc","timestamp":1,"time":0,"mode":"tests","matches":[]}`,
		},
		{
			Response{Timestamp: 1, Mode: ModeText, Tool: &ToolResult{ID: "list", Result: ""}, Error: &engine.Error{Code: engine.InternalError, Message: "Compilation failed: x"}},
			`{"id":null,"timestamp":1,"time":0,"mode":"text","matches":[],"tool":{"id":"list","result":""},"error":{"message":"Compilation failed: x","name":"PREG_INTERNAL_ERROR","id":"error"}}`,
		},
	}

	for _, test := range tests {
		// Act
		b, err := json.Marshal(test.resp)

		// Assert
		assert.Nil(t, err)
		assert.JSONEq(t, test.expected, string(b))
	}
}

func TestRoundSeconds(t *testing.T) {
	assert.Equal(t, 0.0, roundSeconds(0))
	assert.Equal(t, 0.0001, roundSeconds(120*time.Microsecond))
	assert.Equal(t, 1.2346, roundSeconds(1234567*time.Microsecond))
}
