package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/weatherapp/forecast/internal/weather"
)

// DefaultOpenMeteoURL is the public forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// Parameter sets requested on every call.
var (
	currentParams = []string{"temperature_2m", "wind_speed_10m"}
	hourlyParams  = []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m", "uv_index"}
	dailyParams   = []string{"time", "rain_sum"}
)

// OpenMeteoProvider implements weather.Fetcher for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider. An empty baseURL selects DefaultOpenMeteoURL.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchForecast issues one GET for coords and decodes the response. Every
// failure is returned as a *weather.FetchError.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) (*weather.ForecastDocument, error) {
	u, err := p.requestURL(coords)
	if err != nil {
		return nil, &weather.FetchError{Message: fmt.Sprintf("Failed to fetch weather data: %v", err), Err: err}
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, &weather.FetchError{Message: fmt.Sprintf("Failed to fetch weather data: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return nil, toFetchError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &weather.FetchError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Failed to fetch weather data: read body: %v", err),
			Err:        err,
		}
	}

	doc, err := decodeForecast(body)
	if err != nil {
		return nil, &weather.FetchError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Failed to fetch weather data: %v", err),
			Err:        err,
		}
	}
	return doc, nil
}

func (p *OpenMeteoProvider) requestURL(coords weather.Coordinates) (string, error) {
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	values := base.Query()
	values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	values.Set("current", strings.Join(currentParams, ","))
	values.Set("hourly", strings.Join(hourlyParams, ","))
	values.Set("daily", strings.Join(dailyParams, ","))
	base.RawQuery = values.Encode()
	return base.String(), nil
}

// decodeForecast tolerates unknown fields and missing optional ones but
// rejects an empty body or anything that is not a JSON object.
func decodeForecast(body []byte) (*weather.ForecastDocument, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errEmptyBody
	}
	var doc weather.ForecastDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	return &doc, nil
}

func toFetchError(err error) *weather.FetchError {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return &weather.FetchError{StatusCode: se.StatusCode, Message: "open-meteo: " + se.Error(), Err: err}
	case errors.Is(err, errCircuitOpen):
		return &weather.FetchError{Message: "open-meteo temporarily unavailable: " + err.Error(), Err: err}
	default:
		return &weather.FetchError{Message: "Failed to fetch weather data: " + err.Error(), Err: err}
	}
}
