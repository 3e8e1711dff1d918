package weather

import (
	"strconv"
	"time"
)

// Coordinates identifies the point a forecast is requested for.
// Values are passed through to the provider unvalidated.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a canonical string key for indexing these coordinates in stores.
// Coordinates are not rounded: distinct points never share a key.
func (c Coordinates) Key() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ":" + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ForecastDocument is the parsed Open-Meteo forecast response.
// Every field is optional; absence is kept as nil rather than a zero value.
type ForecastDocument struct {
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	Elevation            *float64 `json:"elevation,omitempty"`
	GenerationTimeMs     *float64 `json:"generationtime_ms,omitempty"`
	UTCOffsetSeconds     *int     `json:"utc_offset_seconds,omitempty"`
	Timezone             *string  `json:"timezone,omitempty"`
	TimezoneAbbreviation *string  `json:"timezone_abbreviation,omitempty"`

	Current      *Current          `json:"current,omitempty"`
	CurrentUnits map[string]string `json:"current_units,omitempty"`
	Hourly       *Hourly           `json:"hourly,omitempty"`
	HourlyUnits  map[string]string `json:"hourly_units,omitempty"`
	Daily        *Daily            `json:"daily,omitempty"`
	DailyUnits   map[string]string `json:"daily_units,omitempty"`
}

// Location returns the zone the document's local timestamps are expressed in.
// Open-Meteo reports it as a fixed UTC offset; without one the process-local
// zone is assumed.
func (d *ForecastDocument) Location() *time.Location {
	if d == nil || d.UTCOffsetSeconds == nil {
		return time.Local
	}
	name := "UTC"
	if d.TimezoneAbbreviation != nil && *d.TimezoneAbbreviation != "" {
		name = *d.TimezoneAbbreviation
	}
	return time.FixedZone(name, *d.UTCOffsetSeconds)
}

// Current is the snapshot of conditions at request time.
type Current struct {
	Time          *string  `json:"time,omitempty"`
	Interval      *int     `json:"interval,omitempty"`
	Temperature2m *float64 `json:"temperature_2m,omitempty"`
	WindSpeed10m  *float64 `json:"wind_speed_10m,omitempty"`
}

// Hourly holds parallel arrays; index i in every array refers to the same hour.
// Any array, and any slot within it, may be null.
type Hourly struct {
	Time               []*string  `json:"time,omitempty"`
	Temperature2m      []*float64 `json:"temperature_2m,omitempty"`
	RelativeHumidity2m []*int     `json:"relative_humidity_2m,omitempty"`
	WindSpeed10m       []*float64 `json:"wind_speed_10m,omitempty"`
	UVIndex            []*float64 `json:"uv_index,omitempty"`
}

// Daily holds parallel per-day arrays.
type Daily struct {
	Time             []*string  `json:"time,omitempty"`
	RainSum          []*float64 `json:"rain_sum,omitempty"`
	Temperature2mMax []*float64 `json:"temperature_2m_max,omitempty"`
}

// HourlyBucket is one display record derived from an hourly sample.
type HourlyBucket struct {
	Day         string  `json:"day"`
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	UVIndex     float64 `json:"uvIndex"`
}

// DailyRow is one entry of the weekly forecast.
type DailyRow struct {
	Date           string   `json:"date"`
	RainSum        *float64 `json:"rainSum,omitempty"`
	TemperatureMax *float64 `json:"temperatureMax,omitempty"`
}

// Diagnostic records an input index that was skipped during a transformation.
type Diagnostic struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	if d.Index < 0 {
		return d.Reason
	}
	return "index " + strconv.Itoa(d.Index) + ": " + d.Reason
}

// Snapshot is a successfully fetched document as kept in the history store.
type Snapshot struct {
	Coordinates Coordinates       `json:"coordinates"`
	RequestID   string            `json:"requestId"`
	FetchedAt   time.Time         `json:"fetchedAt"` // always UTC
	Document    *ForecastDocument `json:"forecast"`
}
