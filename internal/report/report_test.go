package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jakhon09-png/vizabot/internal/registry"
)

func TestBroadcastCountsAndContinues(t *testing.T) {
	reg := registry.NewMemory(100)
	ctx := context.Background()
	for id := int64(1); id <= 5; id++ {
		_ = reg.AddUser(ctx, id)
	}

	var attempted []int64
	sender := SenderFunc(func(_ context.Context, userID int64, _ string) error {
		attempted = append(attempted, userID)
		if userID == 2 || userID == 4 {
			return errors.New("blocked")
		}
		return nil
	})

	sent, failed, err := NewBroadcaster(reg, sender).Broadcast(ctx, "yangilik")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if sent != 3 || failed != 2 {
		t.Fatalf("(sent,failed) = (%d,%d), expected (3,2)", sent, failed)
	}
	if len(attempted) != 5 {
		t.Fatalf("attempts = %d, expected all 5 regardless of failures", len(attempted))
	}
}

func TestBroadcastEmptyAudience(t *testing.T) {
	reg := registry.NewMemory(100)
	sender := SenderFunc(func(context.Context, int64, string) error {
		t.Fatal("no delivery expected")
		return nil
	})

	sent, failed, err := NewBroadcaster(reg, sender).Broadcast(context.Background(), "x")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if sent != 0 || failed != 0 {
		t.Fatalf("(sent,failed) = (%d,%d), expected (0,0)", sent, failed)
	}
}

func TestDigestEmptyLog(t *testing.T) {
	reg := registry.NewMemory(100)
	_ = reg.AddUser(context.Background(), 1)

	r := NewReporter(reg)
	r.hostStats = nil

	digest, err := r.Digest(context.Background())
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if digest != msgNoActivity {
		t.Fatalf("digest = %q, expected the no-activity notice", digest)
	}
}

func TestDigestContent(t *testing.T) {
	reg := registry.NewMemory(100)
	ctx := context.Background()
	_ = reg.AddUser(ctx, 10)
	_ = reg.AddUser(ctx, 20)
	for i := 0; i < 7; i++ {
		_ = reg.LogRequest(ctx, 10, "savol")
	}
	_ = reg.LogRequest(ctx, 20, "oxirgi so'rov")

	r := NewReporter(reg)
	r.hostStats = nil

	digest, err := r.Digest(ctx)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if !strings.Contains(digest, "Foydalanuvchilar: 2") {
		t.Fatalf("digest missing user count: %q", digest)
	}
	if !strings.Contains(digest, "So'rovlar: 8") {
		t.Fatalf("digest missing request count: %q", digest)
	}
	if !strings.Contains(digest, "oxirgi so'rov") {
		t.Fatalf("digest missing newest summary: %q", digest)
	}
	// Only the newest five summaries appear.
	if got := strings.Count(digest, "savol"); got != 4 {
		t.Fatalf("summaries of older requests = %d, expected 4", got)
	}
}

func TestSummarizeTruncates(t *testing.T) {
	long := strings.Repeat("uzun matn ", 20)
	got := summarize(long)
	if len([]rune(got)) != 61 {
		t.Fatalf("summary length = %d runes, expected 61", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("summary %q not ellipsized", got)
	}
}
