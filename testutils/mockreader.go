package testutils

import (
	"io"
	"net/url"
)

const (
	jsonBodyHead = `{"pattern":"a","delimiter":"/","text":"`
	jsonBodyTail = `"}`
)

// MockReader streams a solve request body whose text is TextLength copies of Filler, without holding the body in memory.
// The body is raw JSON, or a url-encoded form carrying the JSON in its "data" field when Form is set.
// Filler defaults to 'a' and must not need escaping in JSON or in a query string.
type MockReader struct {
	TextLength int
	Filler     byte
	Form       bool

	pos int
}

func (m *MockReader) parts() (head, tail string) {
	if m.Form {
		return "data=" + url.QueryEscape(jsonBodyHead), url.QueryEscape(jsonBodyTail)
	}
	return jsonBodyHead, jsonBodyTail
}

// Len returns the full size of the body in bytes.
func (m *MockReader) Len() int {
	head, tail := m.parts()
	return len(head) + m.TextLength + len(tail)
}

// Read fills p with the next bytes of the body.
func (m *MockReader) Read(p []byte) (n int, err error) {
	head, tail := m.parts()
	textEnd := len(head) + m.TextLength

	filler := m.Filler
	if filler == 0 {
		filler = 'a'
	}

	for n < len(p) {
		var c int
		switch {
		case m.pos < len(head):
			c = copy(p[n:], head[m.pos:])
		case m.pos < textEnd:
			c = min(len(p)-n, textEnd-m.pos)
			for i := n; i < n+c; i++ {
				p[i] = filler
			}
		case m.pos < textEnd+len(tail):
			c = copy(p[n:], tail[m.pos-textEnd:])
		default:
			if n == 0 {
				err = io.EOF
			}
			return
		}

		n += c
		m.pos += c
	}

	return
}
