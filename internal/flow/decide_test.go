package flow

import (
	"testing"

	"github.com/jakhon09-png/vizabot/internal/session"
)

func TestDecidePriority(t *testing.T) {
	cases := []struct {
		name string
		sess session.UserSession
		want Decision
	}{
		{"no mode falls to chat", session.UserSession{Pending: session.PendingNone}, DecideChat},
		{"empty mode falls to chat", session.UserSession{}, DecideChat},
		{"awaiting target", session.UserSession{Pending: session.AwaitingTranslationTarget}, DecideTranslationTarget},
		{"awaiting text with target", session.UserSession{Pending: session.AwaitingTranslationText, TargetLanguage: "en"}, DecideTranslate},
		{"awaiting text without target re-prompts", session.UserSession{Pending: session.AwaitingTranslationText}, DecideTranslationTarget},
		{"awaiting search", session.UserSession{Pending: session.AwaitingSearchQuery}, DecideSearch},
		{"awaiting topic", session.UserSession{Pending: session.AwaitingPresentationTopic}, DecidePresentation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.sess); got != tc.want {
				t.Fatalf("decision = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestDecideNeverLeaksFlowToChat(t *testing.T) {
	modes := []session.PendingMode{
		session.AwaitingTranslationTarget,
		session.AwaitingTranslationText,
		session.AwaitingSearchQuery,
		session.AwaitingPresentationTopic,
	}
	for _, mode := range modes {
		sess := session.UserSession{Pending: mode, TargetLanguage: "en"}
		if Decide(sess) == DecideChat {
			t.Fatalf("mode %q leaked to generic chat", mode)
		}
	}
}
