package flow

import (
	tghelpers "github.com/jakhon09-png/vizabot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// HandleVoice transcribes a voice message and routes the transcript exactly
// like typed text: pending mode first, then cooldown-gated AI chat.
func (f *Flow) HandleVoice(c tele.Context) error {
	if f.transcriber == nil {
		return tghelpers.SendText(c, msgVoiceFailed)
	}
	msg := c.Message()
	if msg == nil || msg.Voice == nil {
		return nil
	}

	rc, err := c.Bot().File(&msg.Voice.File)
	if err != nil {
		_ = tghelpers.SendText(c, msgVoiceFailed)
		return err
	}
	defer rc.Close()

	ctx := tghelpers.BuildContext(c)
	text, err := f.transcriber.Transcribe(ctx, "voice.ogg", rc)
	if err != nil {
		_ = tghelpers.SendText(c, msgVoiceFailed)
		return err
	}

	userID := c.Sender().ID
	if f.InProgress(userID) {
		r, err := f.consumePending(ctx, userID, text)
		return f.send(c, r, err)
	}

	if !f.allowAI(userID, f.now()) {
		return f.handleLimited(c)
	}
	r, err := f.answerChat(ctx, userID, text)
	return f.send(c, r, err)
}
