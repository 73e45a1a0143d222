package twauth

import (
	"errors"
	"fmt"
	"testing"
)

func TestLoginFailureReasonStructured(t *testing.T) {
	err := &PlatformError{Errors: []PlatformErrorDetail{
		{Code: 399, Message: "Bad credentials"},
		{Message: "shadowed"},
	}}

	if got := loginFailureReason(err); got != "Bad credentials" {
		t.Fatalf("got %q", got)
	}
}

func TestLoginFailureReasonWrappedStructured(t *testing.T) {
	inner := &PlatformError{Errors: []PlatformErrorDetail{{Message: "Bad credentials"}}}
	err := fmt.Errorf("handshake: %w", inner)

	if got := loginFailureReason(err); got != "Bad credentials" {
		t.Fatalf("got %q", got)
	}
}

func TestLoginFailureReasonEmbeddedJSON(t *testing.T) {
	err := errors.New(`status 403: {"errors":[{"code":64,"message":"Account suspended"}]}`)

	if got := loginFailureReason(err); got != "Account suspended" {
		t.Fatalf("got %q", got)
	}
}

func TestLoginFailureReasonRawFallback(t *testing.T) {
	err := errors.New("dial tcp: connection refused")

	if got := loginFailureReason(err); got != "dial tcp: connection refused" {
		t.Fatalf("got %q", got)
	}
}

func TestLoginFailureReasonMalformedJSONFallsBack(t *testing.T) {
	err := errors.New(`status 500: {"errors":`)

	if got := loginFailureReason(err); got != `status 500: {"errors":` {
		t.Fatalf("got %q", got)
	}
}

func TestPlatformErrorMessage(t *testing.T) {
	var empty *PlatformError
	if got := empty.Error(); got != "platform rejected the request" {
		t.Fatalf("nil error text: %q", got)
	}

	full := &PlatformError{Errors: []PlatformErrorDetail{{Message: "Denied"}}}
	if got := full.Error(); got != "Denied" {
		t.Fatalf("got %q", got)
	}
}
