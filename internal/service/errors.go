package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies an external provider failure at the adapter boundary.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindRateLimited       Kind = "rate_limited"
	KindUnavailable       Kind = "unavailable"
	KindMalformedResponse Kind = "malformed_response"
)

// Error is a classified failure from a named external service. Handlers map
// it to a user-facing message; raw provider details never cross further.
type Error struct {
	Service string
	Kind    Kind
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Code feeds the router's handler summary log.
func (e *Error) Code() string {
	return "SVC_" + strings.ToUpper(string(e.Kind))
}

// Classify wraps err as a service Error, deriving the Kind from transport
// behavior. A nil err returns nil.
func Classify(serviceName string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}

	kind := KindUnavailable
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}
	return &Error{Service: serviceName, Kind: kind, Err: err}
}

// ClassifyStatus maps a non-2xx HTTP status to a service Error.
func ClassifyStatus(serviceName string, status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	kind := KindUnavailable
	if status == http.StatusTooManyRequests {
		kind = KindRateLimited
	}
	return &Error{
		Service: serviceName,
		Kind:    kind,
		Err:     fmt.Errorf("unexpected status %d", status),
	}
}

// Malformed marks a syntactically or semantically invalid provider payload.
func Malformed(serviceName string, err error) error {
	return &Error{Service: serviceName, Kind: KindMalformedResponse, Err: err}
}
