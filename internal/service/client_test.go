package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("error %v is not a service error", err)
	}
	return svcErr.Kind
}

func TestGetJSONClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(50 * time.Millisecond)
	var out map[string]any
	err := c.getJSON(context.Background(), "test", srv.URL, nil, &out)
	if got := kindOf(t, err); got != KindTimeout {
		t.Fatalf("kind = %q, expected timeout", got)
	}
}

func TestGetJSONClassifiesRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	var out map[string]any
	err := c.getJSON(context.Background(), "test", srv.URL, nil, &out)
	if got := kindOf(t, err); got != KindRateLimited {
		t.Fatalf("kind = %q, expected rate_limited", got)
	}
}

func TestGetJSONClassifiesUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	var out map[string]any
	err := c.getJSON(context.Background(), "test", srv.URL, nil, &out)
	if got := kindOf(t, err); got != KindUnavailable {
		t.Fatalf("kind = %q, expected unavailable", got)
	}
}

func TestGetJSONClassifiesMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	var out map[string]any
	err := c.getJSON(context.Background(), "test", srv.URL, nil, &out)
	if got := kindOf(t, err); got != KindMalformedResponse {
		t.Fatalf("kind = %q, expected malformed_response", got)
	}
}

func TestGetJSONUnreachableHost(t *testing.T) {
	c := NewClient(200 * time.Millisecond)
	var out map[string]any
	err := c.getJSON(context.Background(), "test", "http://127.0.0.1:1", nil, &out)
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("error %v is not a service error", err)
	}
	if svcErr.Service != "test" {
		t.Fatalf("service = %q, expected test", svcErr.Service)
	}
}

func TestErrorCode(t *testing.T) {
	err := &Error{Service: "weather", Kind: KindTimeout}
	if err.Code() != "SVC_TIMEOUT" {
		t.Fatalf("code = %q, expected SVC_TIMEOUT", err.Code())
	}
}
