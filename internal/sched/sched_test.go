package sched

import (
	"context"
	"testing"
	"time"
)

func TestNextRunLaterToday(t *testing.T) {
	d := NewDaily(9, 0, nil)
	now := time.Date(2026, 8, 30, 7, 30, 0, 0, time.UTC)
	next := d.NextRun(now)
	want := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, expected %v", next, want)
	}
}

func TestNextRunRollsToTomorrow(t *testing.T) {
	d := NewDaily(9, 0, nil)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	next := d.NextRun(now)
	want := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("exact firing time must schedule tomorrow; next = %v, expected %v", next, want)
	}
}

func TestNextRunKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UZT", 5*3600)
	d := NewDaily(23, 59, nil)
	now := time.Date(2026, 8, 30, 23, 59, 30, 0, loc)
	next := d.NextRun(now)
	if next.Location() != loc {
		t.Fatal("schedule must stay in the caller's location")
	}
	if next.Day() != 31 {
		t.Fatalf("next day = %d, expected 31", next.Day())
	}
}

func TestRunFiresJob(t *testing.T) {
	fired := make(chan struct{}, 1)
	d := NewDaily(0, 0, func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	})
	base := time.Now()
	// Pin the clock just before the firing time so the timer is short.
	d.now = func() time.Time {
		return time.Date(base.Year(), base.Month(), base.Day(), 23, 59, 59, int(999 * time.Millisecond), base.Location())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not fire")
	}
}
