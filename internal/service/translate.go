package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const translateServiceName = "translate"

const defaultTranslateURL = "https://api.mymemory.translated.net/get"

// Translator wraps the dedicated translation provider.
type Translator struct {
	client  *Client
	baseURL string
}

// NewTranslator builds the translation adapter; baseURL may be empty.
func NewTranslator(client *Client, baseURL string) *Translator {
	if baseURL == "" {
		baseURL = defaultTranslateURL
	}
	return &Translator{client: client, baseURL: baseURL}
}

type translateResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus any `json:"responseStatus"`
}

// Translate converts text from sourceLang to targetLang. Language codes are
// two-letter; sourceLang falls back to autodetect-from-Uzbek.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == "" {
		sourceLang = "uz"
	}
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", sourceLang+"|"+targetLang)

	var resp translateResponse
	if err := t.client.getJSON(ctx, translateServiceName, t.baseURL, params, &resp); err != nil {
		return "", err
	}
	out := strings.TrimSpace(resp.ResponseData.TranslatedText)
	if out == "" {
		return "", Malformed(translateServiceName, fmt.Errorf("empty translation"))
	}
	return out, nil
}
