package flow

import (
	"github.com/jakhon09-png/vizabot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback namespaces. Payload follows after telebot's separator, so a
// pressed button arrives as e.g. weather|Tashkent.
const (
	cbWeather  = "weather"
	cbCrypto   = "crypto"
	cbLang     = "lang"
	cbCurrency = "currency"
	cbCancel   = "flowcancel"
)

const cancelLabel = "❌ Bekor qilish"

var weatherCities = []string{"Tashkent", "Samarkand", "Bukhara", "Namangan", "Andijan", "Nukus"}

var cryptoCoins = []string{"bitcoin", "ethereum", "solana", "toncoin", "dogecoin", "tether"}

var currencyCodes = []string{"USD", "EUR", "RUB", "GBP", "JPY", "CNY"}

var translationLanguages = []struct {
	Code string
	Name string
}{
	{"en", "🇬🇧 Inglizcha"},
	{"ru", "🇷🇺 Ruscha"},
	{"uz", "🇺🇿 O'zbekcha"},
	{"tr", "🇹🇷 Turkcha"},
	{"de", "🇩🇪 Nemischa"},
	{"fr", "🇫🇷 Fransuzcha"},
}

func cityMenu() *tele.ReplyMarkup {
	return tokenMenu(cbWeather, weatherCities, weatherCities)
}

func coinMenu() *tele.ReplyMarkup {
	labels := make([]string, len(cryptoCoins))
	for i, coin := range cryptoCoins {
		labels[i] = capitalize(coin)
	}
	return tokenMenu(cbCrypto, labels, cryptoCoins)
}

func currencyMenu() *tele.ReplyMarkup {
	return tokenMenu(cbCurrency, currencyCodes, currencyCodes)
}

func languageMenu() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, len(translationLanguages))
	for i, lang := range translationLanguages {
		buttons[i] = keyboard.InlineBtn{Text: lang.Name, Unique: cbLang, Data: lang.Code}
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	cancel := keyboard.CancelButton(markup, cbCancel, "cancel", cancelLabel)
	markup.InlineKeyboard = append(markup.InlineKeyboard, []tele.InlineButton{*cancel.Inline()})
	return markup
}

func cancelMenu() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(cbCancel, "cancel", cancelLabel)
}

func tokenMenu(namespace string, labels, payloads []string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, len(labels))
	for i := range labels {
		buttons[i] = keyboard.InlineBtn{Text: labels[i], Unique: namespace, Data: payloads[i]}
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

func knownLanguage(code string) bool {
	for _, lang := range translationLanguages {
		if lang.Code == code {
			return true
		}
	}
	return false
}
