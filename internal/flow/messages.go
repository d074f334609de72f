package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakhon09-png/vizabot/core/telegram/format"
	"github.com/jakhon09-png/vizabot/internal/service"
	"github.com/jakhon09-png/vizabot/internal/session"
)

// User-facing texts are Uzbek, matching the bot's audience.
const (
	msgWelcome = "Salom! Men sun'iy intellekt bilan ishlaydigan botman. Savollaringizni yozing!"
	msgHelp    = `Buyruqlar:
/start - botni ishga tushirish
/help - yordam
/weather [shahar] - ob-havo
/crypto [tanga] - kripto narxi
/currency - valyuta kursi
/translate - tarjima
/search - qidiruv
/presentation - taqdimot rejasi
/history - suhbat tarixi
/myid - sizning ID raqamingiz
/cancel - joriy amalni bekor qilish`

	msgCancelled       = "Bekor qilindi."
	msgNothingToCancel = "Bekor qilinadigan amal yo'q."
	msgChooseLanguage  = "Tarjima tilini tanlang:"
	msgSendTranslText  = "Endi tarjima qilinadigan matnni yuboring."
	msgSendSearch      = "Qidiruv so'rovingizni yuboring:"
	msgSendTopic       = "Taqdimot mavzusini yuboring:"
	msgChooseCity      = "Shaharni tanlang:"
	msgChooseCoin      = "Tangani tanlang:"
	msgChooseCurrency  = "Valyutani tanlang:"
	msgServiceFailed   = "Xatolik yuz berdi. Iltimos, keyinroq urinib ko'ring."
	msgAdminOnly       = "Bu buyruq faqat administrator uchun."
	msgEmptyBroadcast  = "Foydalanish: /broadcast <matn>"
	msgNoHistory       = "Suhbat tarixi bo'sh."
	msgUnknownLang     = "Til kodi tushunarsiz. Quyidagilardan birini tanlang:"
	msgVoiceFailed     = "Ovozli xabarni o'qib bo'lmadi."
)

func cooldownMessage(wait time.Duration) string {
	secs := int(wait.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("Iltimos, %d soniya kuting!", secs)
}

func formatWeather(r service.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌤 %s ob-havosi\n", r.City)
	if r.Description != "" {
		fmt.Fprintf(&b, "Holat: %s\n", r.Description)
	}
	fmt.Fprintf(&b, "Harorat: %.1f°C (his qilinadi: %.1f°C)\n", r.TempC, r.FeelsLikeC)
	fmt.Fprintf(&b, "Namlik: %d%%\n", r.Humidity)
	fmt.Fprintf(&b, "Shamol: %.1f m/s", r.WindMS)
	return b.String()
}

func formatQuote(q service.Quote) string {
	arrow := "📈"
	if q.Change24h < 0 {
		arrow = "📉"
	}
	return fmt.Sprintf("%s %s: $%.2f (24 soat: %+.2f%%)", arrow, capitalize(q.Coin), q.USD, q.Change24h)
}

func formatRate(r service.Rate) string {
	name := r.Name
	if name == "" {
		name = r.Code
	}
	return fmt.Sprintf("💱 1 %s = %.2f so'm (%s)", name, r.UZS, r.Date)
}

func formatHistory(turns []session.Turn) string {
	if len(turns) == 0 {
		return msgNoHistory
	}
	var b strings.Builder
	b.WriteString("*Suhbat tarixi:*\n")
	for i, t := range turns {
		fmt.Fprintf(&b, "%d. Siz: %s\n   Bot: %s\n", i+1, mdSafe(truncate(t.UserText, 80)), mdSafe(truncate(t.BotText, 80)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// mdSafe escapes user-controlled text for Markdown replies.
func mdSafe(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1)
	if err != nil {
		return s
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
