package service

import (
	"context"
	"fmt"
	"net/url"
)

const weatherServiceName = "weather"

const defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// Weather wraps the weather lookup provider.
type Weather struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewWeather builds the weather adapter.
func NewWeather(client *Client, baseURL, apiKey string) *Weather {
	if baseURL == "" {
		baseURL = defaultWeatherURL
	}
	return &Weather{client: client, baseURL: baseURL, apiKey: apiKey}
}

// Report is a compact current-conditions snapshot for one city.
type Report struct {
	City        string
	Description string
	TempC       float64
	FeelsLikeC  float64
	Humidity    int
	WindMS      float64
}

type weatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches current conditions for a city.
func (w *Weather) Current(ctx context.Context, city string) (Report, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")

	var resp weatherResponse
	if err := w.client.getJSON(ctx, weatherServiceName, w.baseURL, params, &resp); err != nil {
		return Report{}, err
	}
	if resp.Name == "" {
		return Report{}, Malformed(weatherServiceName, fmt.Errorf("missing city in payload"))
	}
	report := Report{
		City:       resp.Name,
		TempC:      resp.Main.Temp,
		FeelsLikeC: resp.Main.FeelsLike,
		Humidity:   resp.Main.Humidity,
		WindMS:     resp.Wind.Speed,
	}
	if len(resp.Weather) > 0 {
		report.Description = resp.Weather[0].Description
	}
	return report, nil
}
