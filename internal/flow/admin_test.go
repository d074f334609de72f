package flow

import (
	"context"
	"testing"

	"github.com/jakhon09-png/vizabot/internal/registry"
	"github.com/jakhon09-png/vizabot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// fakeTeleContext implements the handful of tele.Context methods the flow
// handlers touch; the embedded interface panics on anything else.
type fakeTeleContext struct {
	tele.Context
	sender  *tele.User
	message *tele.Message
	store   map[string]any
	sent    []string
}

func newFakeContext(userID int64, payload string) *fakeTeleContext {
	return &fakeTeleContext{
		sender:  &tele.User{ID: userID},
		message: &tele.Message{Payload: payload, Chat: &tele.Chat{ID: userID}},
		store:   make(map[string]any),
	}
}

func (f *fakeTeleContext) Sender() *tele.User      { return f.sender }
func (f *fakeTeleContext) Chat() *tele.Chat        { return f.message.Chat }
func (f *fakeTeleContext) Message() *tele.Message  { return f.message }
func (f *fakeTeleContext) Update() tele.Update     { return tele.Update{ID: 1, Message: f.message} }
func (f *fakeTeleContext) Text() string            { return f.message.Text }
func (f *fakeTeleContext) Get(key string) any      { return f.store[key] }
func (f *fakeTeleContext) Set(key string, val any) { f.store[key] = val }

func (f *fakeTeleContext) Send(what any, _ ...any) error {
	if text, ok := what.(string); ok {
		f.sent = append(f.sent, text)
	}
	return nil
}

type fakeBroadcaster struct {
	calls int
}

func (f *fakeBroadcaster) Broadcast(context.Context, string) (int, int, error) {
	f.calls++
	return 3, 1, nil
}

func TestBroadcastRefusesNonAdmin(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	reg := registry.NewMemory(100)
	f := New(Options{
		Store:       session.NewMemoryStore(session.MemoryOptions{}),
		Registry:    reg,
		Broadcaster: broadcaster,
		AdminID:     999,
	})

	c := newFakeContext(5, "salom hammaga")
	if err := f.handleBroadcast(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if broadcaster.calls != 0 {
		t.Fatal("non-admin broadcast must not reach delivery")
	}
	if len(c.sent) != 1 || c.sent[0] != msgAdminOnly {
		t.Fatalf("reply = %v, expected admin refusal", c.sent)
	}
	if n, _ := reg.UserCount(context.Background()); n != 0 {
		t.Fatal("refused broadcast must not touch registered users")
	}
}

func TestBroadcastReportsCounts(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	f := New(Options{
		Store:       session.NewMemoryStore(session.MemoryOptions{}),
		Registry:    registry.NewMemory(100),
		Broadcaster: broadcaster,
		AdminID:     999,
	})

	c := newFakeContext(999, "salom hammaga")
	if err := f.handleBroadcast(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if broadcaster.calls != 1 {
		t.Fatalf("broadcast calls = %d, expected 1", broadcaster.calls)
	}
	if len(c.sent) != 1 || c.sent[0] != "Yuborildi: 3, xatolik: 1" {
		t.Fatalf("reply = %v", c.sent)
	}
}

func TestBroadcastRequiresText(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	f := New(Options{
		Store:       session.NewMemoryStore(session.MemoryOptions{}),
		Registry:    registry.NewMemory(100),
		Broadcaster: broadcaster,
		AdminID:     999,
	})

	c := newFakeContext(999, "")
	if err := f.handleBroadcast(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if broadcaster.calls != 0 {
		t.Fatal("empty broadcast must not reach delivery")
	}
	if len(c.sent) != 1 || c.sent[0] != msgEmptyBroadcast {
		t.Fatalf("reply = %v, expected usage hint", c.sent)
	}
}

func TestCancelClearsPendingMode(t *testing.T) {
	store := session.NewMemoryStore(session.MemoryOptions{})
	f := New(Options{Store: store, Registry: registry.NewMemory(100)})
	setPending(t, store, 5, session.AwaitingTranslationText, "en")

	c := newFakeContext(5, "")
	if err := f.handleCancel(c); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	sess, _ := store.Get(context.Background(), 5)
	if sess.Pending != session.PendingNone || sess.TargetLanguage != "" {
		t.Fatal("cancel must clear mode and target")
	}
	if len(c.sent) != 1 || c.sent[0] != msgCancelled {
		t.Fatalf("reply = %v", c.sent)
	}
}

func TestCancelWithoutFlow(t *testing.T) {
	f := New(Options{
		Store:    session.NewMemoryStore(session.MemoryOptions{}),
		Registry: registry.NewMemory(100),
	})

	c := newFakeContext(5, "")
	if err := f.handleCancel(c); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != msgNothingToCancel {
		t.Fatalf("reply = %v", c.sent)
	}
}
