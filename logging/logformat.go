package logging

import (
	"encoding/json"

	"regexsolver/solve"
)

type solveLogEntry struct {
	OperationName string                `json:"operationName"`
	Timestamp     int64                 `json:"timestamp"`
	Properties    solveLogEntryProperty `json:"properties"`
}

type solveLogEntryProperty struct {
	RequestID  json.RawMessage      `json:"requestId"`
	Expression string               `json:"expression"`
	Flavor     string               `json:"flavor"`
	Unit       string               `json:"unit"`
	Mode       string               `json:"mode"`
	Matches    int                  `json:"matches"`
	Samples    int                  `json:"samples"`
	Time       float64              `json:"time"`
	Tool       string               `json:"tool"`
	Error      *solveLogErrorDetail `json:"error,omitempty"`
}

type solveLogErrorDetail struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

func newSolveLogEntry(req solve.Request, resp solve.Response) *solveLogEntry {
	p := solveLogEntryProperty{
		RequestID:  resp.ID,
		Expression: req.Pattern.Expression(),
		Flavor:     string(req.Flavor),
		Unit:       string(req.Unit),
		Mode:       resp.Mode,
		Time:       resp.Time,
	}

	if p.RequestID == nil {
		p.RequestID = json.RawMessage("null")
	}

	if resp.Mode == solve.ModeTests {
		p.Samples = len(resp.TestMatches)
		for _, o := range resp.TestMatches {
			if o.Span != nil {
				p.Matches++
			}
		}
	} else {
		p.Samples = 1
		p.Matches = len(resp.TextMatches)
	}

	if resp.Tool != nil {
		p.Tool = resp.Tool.ID
	}

	if resp.Error != nil {
		p.Error = &solveLogErrorDetail{
			Name:     resp.Error.Code.Name(),
			Category: resp.Error.Code.Category(),
			Message:  resp.Error.Message,
		}
	}

	return &solveLogEntry{
		OperationName: "RegexSolve",
		Timestamp:     resp.Timestamp,
		Properties:    p,
	}
}
