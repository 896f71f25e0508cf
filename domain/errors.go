package domain

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Error kinds as they appear on the wire.
const (
	KindBadRequest = "Bad Request"
	KindNotFound   = "Not Found"
	KindInternal   = "Internal Server Error"
	KindValidation = "ValidationError"
)

// Message is the error message payload: a single string on the wire when it
// holds one entry, an array of strings otherwise.
type Message []string

func (m Message) MarshalJSON() ([]byte, error) {
	if len(m) == 1 {
		return json.Marshal(m[0])
	}
	return json.Marshal([]string(m))
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = Message{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*m = Message(many)
	return nil
}

// Error is the service-level failure carried through every error response.
// Its JSON shape is the stable error envelope contract.
type Error struct {
	Kind       string  `json:"error"`
	Messages   Message `json:"message"`
	StatusCode int     `json:"statusCode"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Kind + ": " + strings.Join(e.Messages, "; ")
}

// NewError builds a wire error with the given status, kind and messages.
func NewError(statusCode int, kind string, messages ...string) *Error {
	return &Error{
		Kind:       kind,
		Messages:   Message(messages),
		StatusCode: statusCode,
	}
}

// BadRequest builds a 400 error.
func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, KindBadRequest, message)
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return NewError(http.StatusNotFound, KindNotFound, message)
}

// Internal builds a 500 error.
func Internal(message string) *Error {
	return NewError(http.StatusInternalServerError, KindInternal, message)
}

// Validation builds a 422 error aggregating every violated field message.
func Validation(messages []string) *Error {
	return NewError(http.StatusUnprocessableEntity, KindValidation, messages...)
}

// Common domain errors.
var ErrTaskNotFound = NotFound("task not found")

// AsError classifies any error into a wire error, wrapping unknown failures
// as Internal Server Error.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err.Error())
}

// IsStatus reports whether err is a wire error with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}
