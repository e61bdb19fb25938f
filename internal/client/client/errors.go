package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidBaseURL    = errors.New("invalid base url")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Status     int
	StatusText string
	// Data is the decoded JSON error body, nil when the body was not JSON.
	Data any
	Raw  []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.StatusText)
}

// IsConflict reports a 409, used by the backend for duplicates.
func (e *APIError) IsConflict() bool { return e.Status == http.StatusConflict }

// IsUnauthorized reports a rejected or missing credential.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Detail flattens the "detail" field of the error body. A string is returned
// as is; a list of {"msg": ...} records is joined with ", ". ok is false when
// the body has no detail in either shape. A list without any msg yields
// ("", true).
func (e *APIError) Detail() (msg string, ok bool) {
	body, isObj := e.Data.(map[string]any)
	if !isObj {
		return "", false
	}
	switch d := body["detail"].(type) {
	case string:
		return d, true
	case []any:
		msgs := make([]string, 0, len(d))
		for _, rec := range d {
			r, isRec := rec.(map[string]any)
			if !isRec {
				continue
			}
			if m, isStr := r["msg"].(string); isStr && m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, ", "), true
	default:
		return "", false
	}
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is an *APIError with 401 or 403.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsUnauthorized()
}
