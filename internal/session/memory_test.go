package session

import (
	"context"
	"testing"
)

func TestMemoryStoreCreatesDefaults(t *testing.T) {
	var seen []int64
	store := NewMemoryStore(MemoryOptions{
		OnFirstSeen: func(userID int64) { seen = append(seen, userID) },
	})

	sess, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.UserID != 42 {
		t.Fatalf("user id = %d, expected 42", sess.UserID)
	}
	if sess.Pending != PendingNone {
		t.Fatalf("pending = %q, expected none", sess.Pending)
	}
	if sess.LanguagePreference != "uz" {
		t.Fatalf("language = %q, expected uz", sess.LanguagePreference)
	}
	if len(seen) != 1 || seen[0] != 42 {
		t.Fatalf("first-seen hook fired %v, expected [42]", seen)
	}

	// Second contact must not re-fire the hook.
	if _, err := store.Get(context.Background(), 42); err != nil {
		t.Fatalf("get again: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("hook fired %d times, expected once", len(seen))
	}
}

func TestMemoryStoreUpdateIsVisible(t *testing.T) {
	store := NewMemoryStore(MemoryOptions{})

	_, err := store.Update(context.Background(), 1, func(s *UserSession) {
		s.Pending = AwaitingSearchQuery
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	sess, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Pending != AwaitingSearchQuery {
		t.Fatalf("pending = %q, expected awaiting_search_query", sess.Pending)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(MemoryOptions{})
	_, _ = store.Update(context.Background(), 1, func(s *UserSession) {
		s.AppendTurn("q", "a", 10)
	})

	sess, _ := store.Get(context.Background(), 1)
	sess.History[0].UserText = "mutated"
	sess.Pending = AwaitingSearchQuery

	fresh, _ := store.Get(context.Background(), 1)
	if fresh.History[0].UserText != "q" {
		t.Fatal("caller mutation leaked into the store")
	}
	if fresh.Pending != PendingNone {
		t.Fatal("caller mutation of pending leaked into the store")
	}
}

func TestAppendTurnBounded(t *testing.T) {
	var sess UserSession
	for i := 0; i < 37; i++ {
		sess.AppendTurn("question", "answer", 10)
		if len(sess.History) > 10 {
			t.Fatalf("history length %d exceeds bound after %d appends", len(sess.History), i+1)
		}
	}
	if len(sess.History) != 10 {
		t.Fatalf("history length = %d, expected 10", len(sess.History))
	}
}

func TestAppendTurnEvictsOldest(t *testing.T) {
	var sess UserSession
	sess.AppendTurn("first", "a", 2)
	sess.AppendTurn("second", "b", 2)
	sess.AppendTurn("third", "c", 2)

	if sess.History[0].UserText != "second" {
		t.Fatalf("oldest entry = %q, expected second", sess.History[0].UserText)
	}
	if sess.History[1].UserText != "third" {
		t.Fatalf("newest entry = %q, expected third", sess.History[1].UserText)
	}
}
