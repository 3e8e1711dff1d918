package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/weatherapp/forecast/internal/weather"
)

type AppConfig struct {
	OpenMeteoBaseURL string

	// Outbound HTTP bounds.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// FetchInterval controls how often tracked locations are refreshed (0 = never).
	FetchInterval time.Duration

	// Outbound rate limit; RateLimit 0 disables it.
	RateLimit float64
	RateBurst int

	// Fencing discards completions of superseded requests.
	Fencing bool

	// Locations to track.
	Locations []weather.Coordinates

	GeocodingAPIKey string

	// In-memory history retention.
	StoreMaxHistory int           // max number of documents per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of documents (0 = unlimited)

	Port     string
	LogLevel slog.Level
}

// InvalidEnvVarError reports an environment variable that could not be parsed.
type InvalidEnvVarError struct {
	Name  string
	Value string
	Err   error
}

func (e *InvalidEnvVarError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Name, e.Value, e.Err)
}

func (e *InvalidEnvVarError) Unwrap() error {
	return e.Err
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com/v1/forecast")

	if cfg.ConnectTimeout, err = getenvDuration("HTTP_CONNECT_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = getenvDuration("HTTP_READ_TIMEOUT", "50s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getenvFloat("FETCH_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = getenvInt("FETCH_RATE_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.Fencing, err = getenvBool("PIPELINE_FENCING", true); err != nil {
		return nil, err
	}

	cfg.GeocodingAPIKey = os.Getenv("GOOGLE_GEOCODING_API_KEY")

	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 96); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.LogLevel, err = getenvLevel("LOG_LEVEL", slog.LevelInfo); err != nil {
		return nil, err
	}

	locs, err := loadLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

func loadLocations() ([]weather.Coordinates, error) {
	lats := splitList(os.Getenv("WEATHER_LATITUDES"))
	lons := splitList(os.Getenv("WEATHER_LONGITUDES"))
	if len(lats) != len(lons) {
		return nil, fmt.Errorf("number of latitudes and longitudes must be the same")
	}

	locs := make([]weather.Coordinates, 0, len(lats))
	for i := range lats {
		lat, err := strconv.ParseFloat(lats[i], 64)
		if err != nil {
			return nil, &InvalidEnvVarError{Name: "WEATHER_LATITUDES", Value: lats[i], Err: err}
		}
		lon, err := strconv.ParseFloat(lons[i], 64)
		if err != nil {
			return nil, &InvalidEnvVarError{Name: "WEATHER_LONGITUDES", Value: lons[i], Err: err}
		}
		locs = append(locs, weather.Coordinates{Latitude: lat, Longitude: lon})
	}
	return locs, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &InvalidEnvVarError{Name: key, Value: v, Err: err}
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &InvalidEnvVarError{Name: key, Value: v, Err: err}
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &InvalidEnvVarError{Name: key, Value: v, Err: err}
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &InvalidEnvVarError{Name: key, Value: v, Err: err}
	}
	return b, nil
}

func getenvLevel(key string, def slog.Level) (slog.Level, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return def, &InvalidEnvVarError{Name: key, Value: v, Err: err}
	}
	return lvl, nil
}
