package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrNoRefreshToken = errors.New("no refresh token stored")

const (
	fallbackClientMessage = "Something went wrong with this request"
	serverErrorMessage    = "Server error, please try again later"
)

// Error is a non-2xx backend response.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Detail)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func newError(status int, body []byte) *Error {
	if status >= 500 {
		return &Error{Status: status, Detail: serverErrorMessage}
	}
	return &Error{Status: status, Detail: detailFrom(body)}
}

// detailFrom pulls the message the backend put in the body, if any.
func detailFrom(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, s := range []string{payload.Detail, payload.Message, payload.Error} {
			if strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fallbackClientMessage
}
