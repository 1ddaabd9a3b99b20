package webapi

import (
	"sync"

	"regexsolver/offset"
	"regexsolver/solve"
)

type mockSolver struct {
	mu       sync.Mutex
	requests []solve.Request
}

func (m *mockSolver) Solve(req solve.Request) solve.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return solve.Response{
		ID:        req.ID,
		Timestamp: 1500000000,
		Mode:      solve.ModeText,
		TextMatches: []solve.MatchEntry{
			{Span: offset.Span{Offset: 1, Length: 2}, Groups: []offset.Span{}},
		},
	}
}
