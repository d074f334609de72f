package sender

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestDoRetriesTransientFailure(t *testing.T) {
	d := NewDispatcher(Options{
		Workers:      1,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})
	defer d.Close()

	calls := 0
	err := d.Do(context.Background(), "broadcast", "sendMessage", func() error {
		calls++
		if calls < 2 {
			return syscall.ECONNRESET
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, expected retry then success", calls)
	}
	if d.ErrorCount() != 0 {
		t.Fatalf("error count = %d, expected 0", d.ErrorCount())
	}
}

func TestDoReturnsFinalError(t *testing.T) {
	d := NewDispatcher(Options{
		Workers:      1,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
	})
	defer d.Close()

	blocked := errors.New("telegram: bot was blocked by the user (403)")
	calls := 0
	err := d.Do(context.Background(), "broadcast", "sendMessage", func() error {
		calls++
		return blocked
	})
	if !errors.Is(err, blocked) {
		t.Fatalf("do = %v, expected the delivery error back", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, a non-transient error must not be retried", calls)
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("error count = %d, expected 1", d.ErrorCount())
	}
}

func TestDoRejectsNilRun(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	defer d.Close()

	if err := d.Do(context.Background(), "broadcast", "sendMessage", nil); err == nil {
		t.Fatal("nil run must be rejected")
	}
}
