package registry

import (
	"context"
	"fmt"
	"testing"
)

func TestMemoryUsersAppendOnly(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2, 1, 3} {
		if err := m.AddUser(ctx, id); err != nil {
			t.Fatalf("add user %d: %v", id, err)
		}
	}
	users, err := m.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("user count = %d, expected 3", len(users))
	}
	// First-seen order, duplicates dropped.
	for i, want := range []int64{3, 1, 2} {
		if users[i] != want {
			t.Fatalf("users[%d] = %d, expected %d", i, users[i], want)
		}
	}
}

func TestMemoryRequestLogBounded(t *testing.T) {
	m := NewMemory(100)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		if err := m.LogRequest(ctx, int64(i), fmt.Sprintf("req %d", i)); err != nil {
			t.Fatalf("log request: %v", err)
		}
	}

	recent, err := m.RecentRequests(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 100 {
		t.Fatalf("window size = %d, expected 100", len(recent))
	}
	if recent[0].Text != "req 249" {
		t.Fatalf("newest entry = %q, expected req 249", recent[0].Text)
	}
	if recent[len(recent)-1].Text != "req 150" {
		t.Fatalf("oldest kept entry = %q, expected req 150", recent[len(recent)-1].Text)
	}

	total, err := m.RequestCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 250 {
		t.Fatalf("total count = %d, expected 250", total)
	}
}

func TestMemoryRecentRequestsLimit(t *testing.T) {
	m := NewMemory(100)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		_ = m.LogRequest(ctx, 1, fmt.Sprintf("req %d", i))
	}

	recent, err := m.RecentRequests(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("len = %d, expected 5", len(recent))
	}
	if recent[0].Text != "req 7" || recent[4].Text != "req 3" {
		t.Fatalf("unexpected window: %q .. %q", recent[0].Text, recent[4].Text)
	}
}
