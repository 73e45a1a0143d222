package twauth

import (
	"encoding/json"
	"errors"
	"strings"
)

// PlatformErrorDetail defines a public type used by twauth APIs.
//
// PlatformErrorDetail instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PlatformErrorDetail struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// PlatformError defines a public type used by twauth APIs.
//
// PlatformError is the structured rejection shape the platform returns on a
// failed login handshake. Platform client implementations should return it
// (or embed its JSON form in the error text) so the resolver can surface the
// first message verbatim as the terminal failure reason.
type PlatformError struct {
	Errors []PlatformErrorDetail `json:"errors"`
}

// Error describes the error operation and its observable behavior.
//
// Error may return an error when input validation, dependency calls, or security checks fail.
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *PlatformError) Error() string {
	if e == nil || len(e.Errors) == 0 || e.Errors[0].Message == "" {
		return "platform rejected the request"
	}
	return e.Errors[0].Message
}

// loginFailureReason extracts the best human-readable reason from a fresh
// login error. A structured PlatformError wins; otherwise a JSON error body
// embedded in the error text is parsed best-effort; otherwise the raw text
// is returned unchanged.
func loginFailureReason(err error) string {
	if err == nil {
		return ""
	}

	var perr *PlatformError
	if errors.As(err, &perr) && perr != nil && len(perr.Errors) > 0 && perr.Errors[0].Message != "" {
		return perr.Errors[0].Message
	}

	text := err.Error()
	if idx := strings.IndexByte(text, '{'); idx >= 0 {
		var embedded PlatformError
		if jsonErr := json.Unmarshal([]byte(text[idx:]), &embedded); jsonErr == nil &&
			len(embedded.Errors) > 0 && embedded.Errors[0].Message != "" {
			return embedded.Errors[0].Message
		}
	}

	return text
}
