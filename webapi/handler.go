package webapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"regexsolver/solve"

	"github.com/rs/zerolog"
)

// Routes served by the handler.
const (
	SolvePath  = "/api/regex/solve"
	HealthPath = "/healthz"
)

type handler struct {
	logger       zerolog.Logger
	solver       solve.Solver
	defaults     solve.Defaults
	maxBodyBytes int64
	mux          *http.ServeMux
}

// NewHandler creates the HTTP handler serving solve requests and health checks.
// maxBodyBytes <= 0 means request bodies are not capped.
func NewHandler(logger zerolog.Logger, solver solve.Solver, defaults solve.Defaults, maxBodyBytes int64) http.Handler {
	h := &handler{
		logger:       logger,
		solver:       solver,
		defaults:     defaults,
		maxBodyBytes: maxBodyBytes,
		mux:          http.NewServeMux(),
	}

	h.mux.HandleFunc("POST "+SolvePath, h.handleSolve)
	h.mux.HandleFunc("GET "+HealthPath, h.handleHealth)

	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	data, err := h.readRequestData(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}

		h.logger.Debug().Err(err).Msg("Failed to read request body")
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := solve.DecodeRequestWithDefaults(data, h.defaults)
	if err != nil {
		h.logger.Debug().Err(err).Msg("Rejected request")
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.solver.Solve(req)

	bb, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal response")
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(bb)
}

// readRequestData returns the JSON request, taken from the "data" field of a form or from the raw body.
func (h *handler) readRequestData(r *http.Request) (data []byte, err error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/x-www-form-urlencoded":
		if err = r.ParseForm(); err != nil {
			return
		}
		data = []byte(r.PostForm.Get("data"))

	case "multipart/form-data":
		if err = r.ParseMultipartForm(32 << 10); err != nil {
			return
		}
		data = []byte(r.PostForm.Get("data"))

	default:
		data, err = io.ReadAll(r.Body)
	}

	return
}

func (h *handler) writeError(w http.ResponseWriter, status int, message string) {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	body.Error.Message = message

	bb, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bb)
}
