package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jakhon09-png/vizabot/core/telegram/netutil"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultResponseTimeout   = 5 * time.Second
	defaultClientTimeout     = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryInterval     = 500 * time.Millisecond
	defaultRetryMaxElapsed   = 10 * time.Second
)

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
// Transient dial/timeout failures are retried with exponential backoff.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: defaultResponseTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	retry := &retryTransport{
		base:        transport,
		maxAttempts: defaultRetryAttempts + 1,
	}

	return &http.Client{
		Timeout:   defaultClientTimeout,
		Transport: retry,
	}
}

type retryTransport struct {
	base        http.RoundTripper
	maxAttempts int
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = defaultRetryInterval
	bo.MaxElapsedTime = defaultRetryMaxElapsed

	var (
		resp    *http.Response
		attempt int
	)

	operation := func() error {
		attempt++
		currReq := req
		if attempt > 1 {
			currReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				currReq.Body = body
			} else if req.Body != nil {
				// non-rewindable body, cannot safely retry
				return backoff.Permanent(errNonRetryableBody)
			}
		}

		r, err := base.RoundTrip(currReq)
		if err == nil {
			resp = r
			return nil
		}
		if attempt >= t.maxAttempts || !netutil.ShouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(bo, req.Context()))
	if err != nil {
		return nil, unwrapPermanent(err)
	}
	return resp, nil
}

var errNonRetryableBody = &nonRetryableBodyError{}

type nonRetryableBodyError struct{}

func (*nonRetryableBodyError) Error() string {
	return "telegram: request body is not rewindable, retry aborted"
}

func unwrapPermanent(err error) error {
	if p, ok := err.(*backoff.PermanentError); ok {
		return p.Err
	}
	return err
}
