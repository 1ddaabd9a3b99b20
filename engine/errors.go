package engine

import (
	"encoding/json"
	"errors"
	"regexp"
)

// ErrorCode is a diagnostic code, named after the codes of the PCRE functions in PHP.
type ErrorCode int

// Error codes.
const (
	NoError ErrorCode = iota
	InternalError
	BacktrackLimitError
	RecursionLimitError
	BadUTF8Error
	BadUTF8OffsetError
	JITStackLimitError
)

var errorCodeNames = map[ErrorCode]string{
	InternalError:       "PREG_INTERNAL_ERROR",
	BacktrackLimitError: "PREG_BACKTRACK_LIMIT_ERROR",
	RecursionLimitError: "PREG_RECURSION_LIMIT_ERROR",
	BadUTF8Error:        "PREG_BAD_UTF8_ERROR",
	BadUTF8OffsetError:  "PREG_BAD_UTF8_OFFSET_ERROR",
	JITStackLimitError:  "PREG_JIT_STACKLIMIT_ERROR",
}

// Name returns the code name, or "" for NoError.
func (c ErrorCode) Name() string {
	return errorCodeNames[c]
}

// Category returns the coarse classification clients act on: "error", "infinite",
// "badutf8", or "" if there is none.
func (c ErrorCode) Category() string {
	switch c {
	case InternalError:
		return "error"
	case BacktrackLimitError, RecursionLimitError, JITStackLimitError:
		return "infinite"
	case BadUTF8Error, BadUTF8OffsetError:
		return "badutf8"
	}
	return ""
}

// Error is an engine diagnostic.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// MarshalJSON writes {"message","name","id"} with id null when the code has no category.
func (e *Error) MarshalJSON() ([]byte, error) {
	var id *string
	if c := e.Code.Category(); c != "" {
		id = &c
	}

	return json.Marshal(struct {
		Message string  `json:"message"`
		Name    string  `json:"name"`
		ID      *string `json:"id"`
	}{e.Message, e.Code.Name(), id})
}

const unknownFailure = "Unknown engine failure"

// Messages from hosting runtimes start with the name of the failing function, such as "preg_match(): ".
var diagnosticPrefix = regexp.MustCompile(`^[a-z_]+\(\):\s*`)

// toError turns whatever a Program or Compiler failed with into an engine Error.
func toError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	msg := diagnosticPrefix.ReplaceAllString(err.Error(), "")
	if msg == "" {
		return &Error{Code: NoError, Message: unknownFailure}
	}

	return &Error{Code: InternalError, Message: msg}
}
