package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day labels produced by DayLabel. Any other day is labelled with its ISO date.
const (
	DayToday    = "Today"
	DayTomorrow = "Tomorrow"
)

const (
	hourlyLayout = "2006-01-02T15:04"
	dateLayout   = "2006-01-02"
)

var errInvalidHourLabel = errors.New("invalid hour label")

// BucketHourly turns the hourly arrays into day-labelled, 12-hour-labelled
// records, dropping every sample that lies strictly before now. Samples are
// parsed in now's location. Output keeps input index order.
//
// Indexes whose time cannot be parsed or whose values are missing are skipped
// and reported as diagnostics. A nil hourly block (or nil time array) yields
// an empty result.
func BucketHourly(hourly *Hourly, now time.Time) ([]HourlyBucket, []Diagnostic) {
	if hourly == nil || hourly.Time == nil {
		return []HourlyBucket{}, []Diagnostic{{Index: -1, Reason: "no hourly time series"}}
	}

	var diags []Diagnostic
	buckets := make([]HourlyBucket, 0, len(hourly.Time))

	for i, raw := range hourly.Time {
		if raw == nil {
			diags = append(diags, Diagnostic{Index: i, Reason: "time missing"})
			continue
		}
		sample, err := time.ParseInLocation(hourlyLayout, *raw, now.Location())
		if err != nil {
			diags = append(diags, Diagnostic{Index: i, Reason: fmt.Sprintf("parse time %q: %v", *raw, err)})
			continue
		}

		label := checkHour(sample, now)
		if label == "" {
			continue
		}

		temp, ok1 := valueAt(hourly.Temperature2m, i)
		humidity, ok2 := valueAt(hourly.RelativeHumidity2m, i)
		wind, ok3 := valueAt(hourly.WindSpeed10m, i)
		uv, ok4 := valueAt(hourly.UVIndex, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			diags = append(diags, Diagnostic{Index: i, Reason: "missing " + strings.Join(missingFields(ok1, ok2, ok3, ok4), ", ")})
			continue
		}

		buckets = append(buckets, HourlyBucket{
			Day:         DayLabel(sample, now),
			Time:        label,
			Temperature: temp,
			Humidity:    humidity,
			WindSpeed:   wind,
			UVIndex:     uv,
		})
	}

	return buckets, diags
}

// DayLabel classifies t relative to now's calendar date.
func DayLabel(t, now time.Time) string {
	y, m, d := t.Date()
	ny, nm, nd := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	switch {
	case day.Equal(today):
		return DayToday
	case day.Equal(today.AddDate(0, 0, 1)):
		return DayTomorrow
	default:
		return day.Format(dateLayout)
	}
}

// HourLabel formats t's hour on a 12-hour clock, e.g. "12 AM", "3 PM".
func HourLabel(t time.Time) string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return strconv.Itoa(h) + " " + suffix
}

// ParseHourLabel is the inverse of HourLabel. It returns the clock hour (1-12)
// and whether the label is in the afternoon.
func ParseHourLabel(label string) (hour int, pm bool, err error) {
	num, suffix, ok := strings.Cut(strings.TrimSpace(label), " ")
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", errInvalidHourLabel, label)
	}
	switch strings.ToUpper(strings.TrimSpace(suffix)) {
	case "AM":
	case "PM":
		pm = true
	default:
		return 0, false, fmt.Errorf("%w: %q", errInvalidHourLabel, label)
	}
	hour, err = strconv.Atoi(num)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false, fmt.Errorf("%w: %q", errInvalidHourLabel, label)
	}
	return hour, pm, nil
}

// FilterDay returns the buckets labelled with day, preserving order.
func FilterDay(buckets []HourlyBucket, day string) []HourlyBucket {
	out := make([]HourlyBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Day == day {
			out = append(out, b)
		}
	}
	return out
}

// checkHour returns the display label for sample, or "" when now is already
// past it. A sample equal to now is kept.
func checkHour(sample, now time.Time) string {
	if now.After(sample) {
		return ""
	}
	return HourLabel(sample)
}

func valueAt[T any](values []*T, i int) (T, bool) {
	var zero T
	if i >= len(values) || values[i] == nil {
		return zero, false
	}
	return *values[i], true
}

func missingFields(temp, humidity, wind, uv bool) []string {
	var out []string
	if !temp {
		out = append(out, "temperature_2m")
	}
	if !humidity {
		out = append(out, "relative_humidity_2m")
	}
	if !wind {
		out = append(out, "wind_speed_10m")
	}
	if !uv {
		out = append(out, "uv_index")
	}
	return out
}
