package webapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"regexsolver/engine"
	"regexsolver/offset"
	"regexsolver/solve"
	"regexsolver/testutils"

	"github.com/stretchr/testify/assert"
)

const mockResponse = `{"id":7,"timestamp":1500000000,"time":0,"mode":"text","matches":[{"i":1,"l":2,"groups":[]}]}`

func TestSolveRawJSONBody(t *testing.T) {
	// Arrange
	logger := testutils.NewTestLogger(t)
	ms := &mockSolver{}
	h := NewHandler(logger, ms, solve.Defaults{}, 1024)
	req := httptest.NewRequest(http.MethodPost, SolvePath, strings.NewReader(`{"id":7,"pattern":"b","delimiter":"/","flags":"g","text":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, mockResponse, rec.Body.String())
	if assert.Len(t, ms.requests, 1) {
		assert.Equal(t, "/b/", ms.requests[0].Pattern.Expression())
		assert.True(t, ms.requests[0].Pattern.Global)
	}
}

func TestSolveFormBody(t *testing.T) {
	// Arrange
	logger := testutils.NewTestLogger(t)
	ms := &mockSolver{}
	h := NewHandler(logger, ms, solve.Defaults{}, 1024)
	form := url.Values{"data": {`{"id":7,"pattern":"b","delimiter":"/","text":"abc"}`}}
	req := httptest.NewRequest(http.MethodPost, SolvePath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mockResponse, rec.Body.String())
	assert.Len(t, ms.requests, 1)
}

func TestSolveMultipartFormBody(t *testing.T) {
	// Arrange
	logger := testutils.NewTestLogger(t)
	ms := &mockSolver{}
	h := NewHandler(logger, ms, solve.Defaults{}, 1024*1024)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("data", `{"id":7,"pattern":"b","delimiter":"/","text":"abc"}`)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, SolvePath, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mockResponse, rec.Body.String())
}

func TestSolveFormAndRawBodiesGiveSameEnvelope(t *testing.T) {
	// Arrange
	logger := testutils.NewTestLogger(t)
	invokers := engine.NewInvokerFactory(logger, engine.NewCompiler(time.Second))
	h := NewHandler(logger, solve.NewSolver(logger, invokers, nil, nil), solve.Defaults{}, 4096)
	data := `{"id":"x","pattern":"(\\w)(\\d)?","delimiter":"/","flags":"g","text":"日a1 b","tool":{"id":"replace","input":"[$1]"}}`

	send := func(req *http.Request) map[string]interface{} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var m map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		delete(m, "time")
		delete(m, "timestamp")
		return m
	}

	raw := httptest.NewRequest(http.MethodPost, SolvePath, strings.NewReader(data))
	form := httptest.NewRequest(http.MethodPost, SolvePath, strings.NewReader(url.Values{"data": {data}}.Encode()))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Act
	rawResult := send(raw)
	formResult := send(form)

	// Assert
	assert.Equal(t, rawResult, formResult)
	assert.Equal(t, "x", rawResult["id"])
	assert.Equal(t, "text", rawResult["mode"])
	assert.Equal(t, map[string]interface{}{"id": "replace", "result": "[日][a] [b]"}, rawResult["tool"])
	assert.Len(t, rawResult["matches"], 3)
	assert.Nil(t, rawResult["error"])
}

func TestSolveAppliesDefaults(t *testing.T) {
	// Arrange
	logger := testutils.NewTestLogger(t)
	ms := &mockSolver{}
	h := NewHandler(logger, ms, solve.Defaults{Flavor: engine.RE2, Unit: offset.UTF16}, 1024)
	req := httptest.NewRequest(http.MethodPost, SolvePath, strings.NewReader(`{"pattern":"b","delimiter":"/","text":"abc"}`))
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.Len(t, ms.requests, 1) {
		assert.Equal(t, engine.RE2, ms.requests[0].Flavor)
		assert.Equal(t, offset.UTF16, ms.requests[0].Unit)
	}
}

func TestSolveBadRequests(t *testing.T) {
	type testcase struct {
		body     string
		contains string
	}
	tests := []testcase{
		{`{"pattern":`, "invalid JSON"},
		{``, "invalid JSON"},
		{`[1]`, "invalid request"},
		{`{"flavor":"perl"}`, "invalid request"},
	}

	logger := testutils.NewTestLogger(t)
	ms := &mockSolver{}
	h := NewHandler(logger, ms, solve.Defaults{}, 1024)

	for _, test := range tests {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, SolvePath, strings.NewReader(test.body))
		rec := httptest.NewRecorder()

		// Act
		h.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code, test.body)
		var m struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Contains(t, m.Error.Message, test.contains)
	}

	assert.Len(t, ms.requests, 0)
}

func TestSolveBodyTooLarge(t *testing.T) {
	// Arrange
	type testcase struct {
		contentType string
		body        *testutils.MockReader
	}
	tests := []testcase{
		{"application/json", &testutils.MockReader{TextLength: 1024 * 64}},
		{"application/x-www-form-urlencoded", &testutils.MockReader{TextLength: 1024 * 64, Form: true}},
	}

	for _, test := range tests {
		logger := testutils.NewTestLogger(t)
		ms := &mockSolver{}
		h := NewHandler(logger, ms, solve.Defaults{}, 1024)
		req := httptest.NewRequest(http.MethodPost, SolvePath, test.body)
		req.Header.Set("Content-Type", test.contentType)
		rec := httptest.NewRecorder()

		// Act
		h.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, test.contentType)
		assert.Len(t, ms.requests, 0)
	}
}

func TestSolveBodyJustUnderLimit(t *testing.T) {
	// Arrange
	type testcase struct {
		contentType string
		body        *testutils.MockReader
	}
	tests := []testcase{
		{"application/json", &testutils.MockReader{TextLength: 900, Filler: 'b'}},
		{"application/x-www-form-urlencoded", &testutils.MockReader{TextLength: 900, Filler: 'b', Form: true}},
	}

	for _, test := range tests {
		logger := testutils.NewTestLogger(t)
		ms := &mockSolver{}
		h := NewHandler(logger, ms, solve.Defaults{}, 1024)
		assert.LessOrEqual(t, test.body.Len(), 1024)
		req := httptest.NewRequest(http.MethodPost, SolvePath, test.body)
		req.Header.Set("Content-Type", test.contentType)
		rec := httptest.NewRecorder()

		// Act
		h.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code, test.contentType)
		if assert.Len(t, ms.requests, 1) {
			assert.Equal(t, solve.SingleText{Text: strings.Repeat("b", 900)}, ms.requests[0].Mode)
		}
	}
}

func TestSolveWrongMethod(t *testing.T) {
	// Arrange
	logger := testutils.NewTestLogger(t)
	h := NewHandler(logger, &mockSolver{}, solve.Defaults{}, 1024)
	req := httptest.NewRequest(http.MethodGet, SolvePath, nil)
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	// Arrange
	logger := testutils.NewTestLogger(t)
	h := NewHandler(logger, &mockSolver{}, solve.Defaults{}, 1024)
	req := httptest.NewRequest(http.MethodGet, HealthPath, nil)
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
