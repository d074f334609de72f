package flow

import (
	"testing"

	tg "github.com/jakhon09-png/vizabot/core/telegram"
	"github.com/jakhon09-png/vizabot/core/telegram/router"
	"github.com/jakhon09-png/vizabot/internal/registry"
	"github.com/jakhon09-png/vizabot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// wireCommandRoutes builds the command routes exactly the way the app
// composes them, admin gate and reject handler included, keyed by endpoint.
func wireCommandRoutes(f *Flow) map[string]tele.HandlerFunc {
	reg := tg.NewRegistry()
	f.Register(reg)
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       f.AdminID(),
		OnAdminReject: f.RejectNonAdmin,
	})
	byEndpoint := make(map[string]tele.HandlerFunc, len(routes))
	for _, route := range routes {
		if ep, ok := route.Endpoint.(string); ok {
			byEndpoint[ep] = route.Handler
		}
	}
	return byEndpoint
}

func TestWiredBroadcastRepliesRefusalToNonAdmin(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	f := New(Options{
		Store:       session.NewMemoryStore(session.MemoryOptions{}),
		Registry:    registry.NewMemory(100),
		Broadcaster: broadcaster,
		AdminID:     999,
	})

	handler, ok := wireCommandRoutes(f)["/broadcast"]
	if !ok {
		t.Fatal("no wired /broadcast route")
	}

	c := newFakeContext(5, "salom hammaga")
	if err := handler(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if broadcaster.calls != 0 {
		t.Fatal("non-admin broadcast must not reach delivery")
	}
	if len(c.sent) != 1 || c.sent[0] != msgAdminOnly {
		t.Fatalf("reply = %v, expected admin refusal", c.sent)
	}
}

func TestWiredBroadcastAdminPassesGate(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	f := New(Options{
		Store:       session.NewMemoryStore(session.MemoryOptions{}),
		Registry:    registry.NewMemory(100),
		Broadcaster: broadcaster,
		AdminID:     999,
	})

	handler, ok := wireCommandRoutes(f)["/broadcast"]
	if !ok {
		t.Fatal("no wired /broadcast route")
	}

	c := newFakeContext(999, "salom hammaga")
	if err := handler(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if broadcaster.calls != 1 {
		t.Fatalf("broadcaster calls = %d, expected 1", broadcaster.calls)
	}
	if len(c.sent) != 1 || c.sent[0] != "Yuborildi: 3, xatolik: 1" {
		t.Fatalf("reply = %v, expected delivery summary", c.sent)
	}
}

func TestWiredReportRepliesRefusalToNonAdmin(t *testing.T) {
	f := New(Options{
		Store:    session.NewMemoryStore(session.MemoryOptions{}),
		Registry: registry.NewMemory(100),
		AdminID:  999,
	})

	handler, ok := wireCommandRoutes(f)["/report"]
	if !ok {
		t.Fatal("no wired /report route")
	}

	c := newFakeContext(5, "")
	if err := handler(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != msgAdminOnly {
		t.Fatalf("reply = %v, expected admin refusal", c.sent)
	}
}
