package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jakhon09-png/vizabot/core/logger"
	"log/slog"
)

const maxResponseBytes = 1 << 20

// Client carries the shared HTTP transport and per-call timeout for all
// lookup adapters. One timeout-bounded attempt per call; retry and fallback
// policy belongs to the handlers.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// NewClient builds the shared adapter client.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// getJSON performs a GET against base with query params and decodes the JSON
// body into out, classifying every failure under serviceName.
func (c *Client) getJSON(ctx context.Context, serviceName, base string, params url.Values, out any) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := base
	if len(params) > 0 {
		target = base + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Classify(serviceName, fmt.Errorf("build request: %w", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logCall(ctx, serviceName, start, "fail", err)
		return Classify(serviceName, err)
	}
	defer resp.Body.Close()

	if err := ClassifyStatus(serviceName, resp.StatusCode); err != nil {
		logCall(ctx, serviceName, start, "fail", err)
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logCall(ctx, serviceName, start, "fail", err)
		return Classify(serviceName, fmt.Errorf("read body: %w", err))
	}
	if err := json.Unmarshal(body, out); err != nil {
		logCall(ctx, serviceName, start, "fail", err)
		return Malformed(serviceName, err)
	}

	logCall(ctx, serviceName, start, "ok", nil)
	return nil
}

func logCall(ctx context.Context, serviceName string, start time.Time, status string, err error) {
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("service", serviceName),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	logger.LogEvent(ctx, logger.SVC, level, "call", attrs...)
}
