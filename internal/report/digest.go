package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jakhon09-png/vizabot/internal/registry"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

const digestSummaries = 5

const msgNoActivity = "Bugun faollik bo'lmadi."

// Reporter assembles the administrator's daily activity digest from the
// request log and registered-user set.
type Reporter struct {
	reg registry.Registry

	// hostStats is swapped out in tests.
	hostStats func(ctx context.Context) string
}

// NewReporter builds a Reporter.
func NewReporter(reg registry.Registry) *Reporter {
	return &Reporter{reg: reg, hostStats: hostStats}
}

// Digest returns the digest text, or the no-activity notice when the
// request log is empty.
func (r *Reporter) Digest(ctx context.Context) (string, error) {
	requests, err := r.reg.RequestCount(ctx)
	if err != nil {
		return "", err
	}
	if requests == 0 {
		return msgNoActivity, nil
	}

	users, err := r.reg.UserCount(ctx)
	if err != nil {
		return "", err
	}
	recent, err := r.reg.RecentRequests(ctx, digestSummaries)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📊 Kunlik hisobot\n")
	fmt.Fprintf(&b, "Foydalanuvchilar: %d\n", users)
	fmt.Fprintf(&b, "So'rovlar: %d\n", requests)
	b.WriteString("Oxirgi so'rovlar:\n")
	for i, entry := range recent {
		fmt.Fprintf(&b, "%d. [%s] %d: %s\n",
			i+1, entry.At.Format("15:04"), entry.UserID, summarize(entry.Text))
	}
	if r.hostStats != nil {
		if stats := r.hostStats(ctx); stats != "" {
			b.WriteString(stats)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > 60 {
		return string(runes[:60]) + "…"
	}
	return text
}

func hostStats(ctx context.Context) string {
	var b strings.Builder
	if info, err := host.InfoWithContext(ctx); err == nil {
		up := time.Duration(info.Uptime) * time.Second
		fmt.Fprintf(&b, "Server: %s, uptime %s\n", info.Hostname, up.Round(time.Minute))
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		fmt.Fprintf(&b, "Xotira: %.1f%% band\n", vm.UsedPercent)
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		fmt.Fprintf(&b, "Yuklama: %.2f %.2f %.2f\n", avg.Load1, avg.Load5, avg.Load15)
	}
	return b.String()
}
