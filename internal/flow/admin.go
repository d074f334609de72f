package flow

import (
	"fmt"
	"strings"

	tghelpers "github.com/jakhon09-png/vizabot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Admin commands carry AdminOnly metadata, so the command router's access
// gate rejects non-administrators before these handlers run. The identity
// check here covers direct invocation paths.

func (f *Flow) isAdmin(c tele.Context) bool {
	sender := c.Sender()
	return sender != nil && f.adminID != 0 && sender.ID == f.adminID
}

// RejectNonAdmin answers a gated command for everyone the access gate
// turned away. Wired as the command router's reject handler so restricted
// commands always reply instead of going silent.
func (f *Flow) RejectNonAdmin(c tele.Context) error {
	return tghelpers.SendText(c, msgAdminOnly)
}

func (f *Flow) handleBroadcast(c tele.Context) error {
	if !f.isAdmin(c) {
		return tghelpers.SendText(c, msgAdminOnly)
	}
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return tghelpers.SendText(c, msgEmptyBroadcast)
	}
	if f.broadcaster == nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}

	ctx := tghelpers.BuildContext(c)
	sent, failed, err := f.broadcaster.Broadcast(ctx, text)
	if err != nil {
		_ = tghelpers.SendText(c, msgServiceFailed)
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf("Yuborildi: %d, xatolik: %d", sent, failed))
}

func (f *Flow) handleReport(c tele.Context) error {
	if !f.isAdmin(c) {
		return tghelpers.SendText(c, msgAdminOnly)
	}
	if f.reporter == nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}

	ctx := tghelpers.BuildContext(c)
	digest, err := f.reporter.Digest(ctx)
	if err != nil {
		_ = tghelpers.SendText(c, msgServiceFailed)
		return err
	}
	return tghelpers.SendText(c, digest)
}
