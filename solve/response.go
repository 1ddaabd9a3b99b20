package solve

import (
	"encoding/json"
	"math"
	"time"

	"regexsolver/engine"
)

// Response is the envelope returned for every request. Only the matches of its Mode are set.
type Response struct {
	ID          json.RawMessage
	Timestamp   int64
	Time        float64
	Mode        string
	TextMatches []MatchEntry
	TestMatches []TestOutcome
	Tool        *ToolResult
	Error       *engine.Error
}

// MarshalJSON writes {"id","timestamp","time","mode","matches","tool"?,"error"?}.
func (r Response) MarshalJSON() ([]byte, error) {
	var matches interface{}
	if r.Mode == ModeTests {
		if r.TestMatches == nil {
			r.TestMatches = []TestOutcome{}
		}
		matches = r.TestMatches
	} else {
		if r.TextMatches == nil {
			r.TextMatches = []MatchEntry{}
		}
		matches = r.TextMatches
	}

	id := r.ID
	if id == nil {
		id = json.RawMessage("null")
	}

	return json.Marshal(struct {
		ID        json.RawMessage `json:"id"`
		Timestamp int64           `json:"timestamp"`
		Time      float64         `json:"time"`
		Mode      string          `json:"mode"`
		Matches   interface{}     `json:"matches"`
		Tool      *ToolResult     `json:"tool,omitempty"`
		Error     *engine.Error   `json:"error,omitempty"`
	}{id, r.Timestamp, r.Time, r.Mode, matches, r.Tool, r.Error})
}

// roundSeconds returns d in seconds, rounded to 4 decimal places.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1e4) / 1e4
}
