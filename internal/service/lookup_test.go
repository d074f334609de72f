package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCryptoPriceParsesQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "bitcoin" {
			t.Errorf("ids = %q, expected bitcoin", r.URL.Query().Get("ids"))
		}
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":64250.5,"usd_24h_change":-1.25}}`))
	}))
	defer srv.Close()

	c := NewCrypto(NewClient(time.Second), srv.URL)
	quote, err := c.Price(context.Background(), " Bitcoin ")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if quote.USD != 64250.5 {
		t.Fatalf("usd = %v, expected 64250.5", quote.USD)
	}
	if quote.Change24h != -1.25 {
		t.Fatalf("change = %v, expected -1.25", quote.Change24h)
	}
}

func TestCryptoPriceUnknownCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewCrypto(NewClient(time.Second), srv.URL)
	_, err := c.Price(context.Background(), "nosuchcoin")
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindMalformedResponse {
		t.Fatalf("err = %v, expected malformed_response", err)
	}
}

func TestCurrencyRateFindsCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"Ccy":"EUR","CcyNm_UZ":"EVRO","Rate":"13650.11","Date":"30.08.2026"},
			{"Ccy":"USD","CcyNm_UZ":"AQSH dollari","Rate":"12600.55","Date":"30.08.2026"}
		]`))
	}))
	defer srv.Close()

	c := NewCurrency(NewClient(time.Second), srv.URL)
	rate, err := c.Rate(context.Background(), "usd")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rate.UZS != 12600.55 {
		t.Fatalf("rate = %v, expected 12600.55", rate.UZS)
	}
	if rate.Name != "AQSH dollari" {
		t.Fatalf("name = %q", rate.Name)
	}
}

func TestWeatherCurrentParsesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Tashkent" {
			t.Errorf("q = %q, expected Tashkent", r.URL.Query().Get("q"))
		}
		_, _ = w.Write([]byte(`{
			"name":"Tashkent",
			"weather":[{"description":"clear sky"}],
			"main":{"temp":31.2,"feels_like":29.8,"humidity":24},
			"wind":{"speed":3.4}
		}`))
	}))
	defer srv.Close()

	wsvc := NewWeather(NewClient(time.Second), srv.URL, "key")
	report, err := wsvc.Current(context.Background(), "Tashkent")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if report.City != "Tashkent" || report.Description != "clear sky" {
		t.Fatalf("report = %+v", report)
	}
	if report.TempC != 31.2 || report.Humidity != 24 {
		t.Fatalf("report = %+v", report)
	}
}

func TestTranslateParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("langpair") != "uz|en" {
			t.Errorf("langpair = %q, expected uz|en", r.URL.Query().Get("langpair"))
		}
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"hello"},"responseStatus":200}`))
	}))
	defer srv.Close()

	tr := NewTranslator(NewClient(time.Second), srv.URL)
	out, err := tr.Translate(context.Background(), "salom", "", "en")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "hello" {
		t.Fatalf("out = %q, expected hello", out)
	}
}

func TestTranslateEmptyResultIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":""}}`))
	}))
	defer srv.Close()

	tr := NewTranslator(NewClient(time.Second), srv.URL)
	_, err := tr.Translate(context.Background(), "salom", "", "en")
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindMalformedResponse {
		t.Fatalf("err = %v, expected malformed_response", err)
	}
}
