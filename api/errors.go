package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrRateLimited          = errors.New("rate limited")
	ErrMalformedResponse    = errors.New("malformed response")
	ErrIncorrectFlag        = errors.New("incorrect flag")
	ErrUserAlreadySubmitted = errors.New("user flag already submitted")
	ErrRootAlreadySubmitted = errors.New("root flag already submitted")
	ErrTooManyResets        = errors.New("too many reset attempts")
	ErrNoActiveInstance     = errors.New("no active instance")

	ErrMalformedCache   = errors.New("credential cache is not valid JSON")
	ErrCacheAttribute   = errors.New("credential cache is missing required fields")
	ErrCacheIsDirectory = errors.New("credential cache path is a directory")
)

// Error is a failed API call. Kind is one of the sentinel errors above when
// the failure could be classified, nil otherwise.
type Error struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
}

func (e *Error) Unwrap() error { return e.Kind }

// classify turns a response status and body into an error, or nil for a
// successful status.
func classify(status int, body []byte) error {
	if status < 400 {
		return nil
	}

	e := &Error{StatusCode: status, Message: messageOf(body)}
	switch status {
	case http.StatusTooManyRequests:
		e.Kind = ErrRateLimited
	case http.StatusNotFound:
		e.Kind = ErrNotFound
	case http.StatusUnauthorized:
		e.Kind = ErrUnauthorized
	default:
		e.Kind = kindOf(e.Message)
	}
	return e
}

// messageError reports a failure the platform signals inside a 2xx body.
func messageError(msg string) error {
	kind := kindOf(msg)
	if kind == nil {
		return nil
	}
	return &Error{StatusCode: http.StatusOK, Message: msg, Kind: kind}
}

func kindOf(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "incorrect flag"):
		return ErrIncorrectFlag
	case strings.Contains(lower, "already own") && strings.Contains(lower, "user"):
		return ErrUserAlreadySubmitted
	case strings.Contains(lower, "already own") && strings.Contains(lower, "root"):
		return ErrRootAlreadySubmitted
	case strings.Contains(lower, "too many reset"):
		return ErrTooManyResets
	case strings.Contains(lower, "too many requests"):
		return ErrRateLimited
	}
	return nil
}

func messageOf(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, raw := range []json.RawMessage{payload.Message, payload.Error} {
		var s string
		if len(raw) > 0 && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}
