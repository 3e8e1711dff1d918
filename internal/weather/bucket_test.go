package weather

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func strs(values ...string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func floats(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func ints(values ...int) []*int {
	out := make([]*int, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func hourlyFixture(times ...string) *Hourly {
	n := len(times)
	h := &Hourly{Time: strs(times...)}
	for i := 0; i < n; i++ {
		h.Temperature2m = append(h.Temperature2m, ptr(10+float64(i)))
		h.RelativeHumidity2m = append(h.RelativeHumidity2m, ptr(50+i))
		h.WindSpeed10m = append(h.WindSpeed10m, ptr(5.5))
		h.UVIndex = append(h.UVIndex, ptr(1.0))
	}
	return h
}

// TestBucketHourlyDropsPastSamples covers the reference scenario: a sample
// strictly before now is dropped, one equal to now is kept.
func TestBucketHourlyDropsPastSamples(t *testing.T) {
	now := time.Date(2025, 1, 18, 14, 0, 0, 0, time.UTC)
	hourly := hourlyFixture("2025-01-18T13:00", "2025-01-18T14:00", "2025-01-18T15:00", "2025-01-19T03:00")

	buckets, diags := BucketHourly(hourly, now)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	want := []HourlyBucket{
		{Day: DayToday, Time: "2 PM", Temperature: 11, Humidity: 51, WindSpeed: 5.5, UVIndex: 1},
		{Day: DayToday, Time: "3 PM", Temperature: 12, Humidity: 52, WindSpeed: 5.5, UVIndex: 1},
		{Day: DayTomorrow, Time: "3 AM", Temperature: 13, Humidity: 53, WindSpeed: 5.5, UVIndex: 1},
	}
	if len(buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %d: %+v", len(want), len(buckets), buckets)
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], buckets[i])
		}
	}
}

func TestBucketHourlyLabelsLaterDaysByDate(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	hourly := hourlyFixture("2025-12-31T23:00", "2026-01-01T00:00", "2026-01-02T12:00")

	buckets, _ := BucketHourly(hourly, now)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	if buckets[0].Day != DayToday || buckets[0].Time != "11 PM" {
		t.Fatalf("unexpected first bucket: %+v", buckets[0])
	}
	if buckets[1].Day != DayTomorrow || buckets[1].Time != "12 AM" {
		t.Fatalf("unexpected second bucket: %+v", buckets[1])
	}
	if buckets[2].Day != "2026-01-02" || buckets[2].Time != "12 PM" {
		t.Fatalf("unexpected third bucket: %+v", buckets[2])
	}
}

func TestBucketHourlySkipsBadRecords(t *testing.T) {
	now := time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC)
	hourly := hourlyFixture("2025-01-18T01:00", "not-a-time", "2025-01-18T03:00", "2025-01-18T04:00")
	hourly.Time[3] = nil
	hourly.UVIndex[2] = nil

	buckets, diags := BucketHourly(hourly, now)
	if len(buckets) != 1 || buckets[0].Time != "1 AM" {
		t.Fatalf("expected only the 1 AM bucket, got %+v", buckets)
	}
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", diags)
	}
	if diags[0].Index != 1 || diags[1].Index != 2 || diags[2].Index != 3 {
		t.Fatalf("unexpected diagnostic indexes: %v", diags)
	}
	if !strings.Contains(diags[1].Reason, "uv_index") {
		t.Fatalf("expected uv_index to be reported missing, got %q", diags[1].Reason)
	}
}

func TestBucketHourlyShortValueArray(t *testing.T) {
	now := time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC)
	hourly := hourlyFixture("2025-01-18T01:00", "2025-01-18T02:00")
	hourly.Temperature2m = hourly.Temperature2m[:1]

	buckets, diags := BucketHourly(hourly, now)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if len(diags) != 1 || diags[0].Index != 1 {
		t.Fatalf("expected a diagnostic for index 1, got %v", diags)
	}
}

func TestBucketHourlyNilInput(t *testing.T) {
	now := time.Now()

	for _, hourly := range []*Hourly{nil, {}} {
		buckets, diags := BucketHourly(hourly, now)
		if buckets == nil || len(buckets) != 0 {
			t.Fatalf("expected empty non-nil buckets, got %#v", buckets)
		}
		if len(diags) != 1 || diags[0].Index != -1 {
			t.Fatalf("expected one whole-input diagnostic, got %v", diags)
		}
	}
}

func TestBucketHourlyUsesNowLocation(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	now := time.Date(2025, 1, 18, 14, 30, 0, 0, zone)
	hourly := hourlyFixture("2025-01-18T14:00", "2025-01-18T15:00")

	buckets, _ := BucketHourly(hourly, now)
	if len(buckets) != 1 || buckets[0].Time != "3 PM" {
		t.Fatalf("expected only 3 PM to remain, got %+v", buckets)
	}
}

func TestHourLabel(t *testing.T) {
	tests := map[int]string{
		0:  "12 AM",
		1:  "1 AM",
		11: "11 AM",
		12: "12 PM",
		13: "1 PM",
		23: "11 PM",
	}
	for hour, want := range tests {
		got := HourLabel(time.Date(2025, 1, 1, hour, 0, 0, 0, time.UTC))
		if got != want {
			t.Fatalf("hour %d: expected %q, got %q", hour, want, got)
		}
	}
}

func TestParseHourLabelRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		label := HourLabel(time.Date(2025, 1, 1, h, 0, 0, 0, time.UTC))
		hour, pm, err := ParseHourLabel(label)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", label, err)
		}
		back := hour % 12
		if pm {
			back += 12
		}
		if back != h {
			t.Fatalf("%q: expected hour %d, got %d", label, h, back)
		}
	}

	for _, bad := range []string{"", "13 PM", "0 AM", "3PM", "3 XM", "three PM"} {
		if _, _, err := ParseHourLabel(bad); !errors.Is(err, errInvalidHourLabel) {
			t.Fatalf("%q: expected errInvalidHourLabel, got %v", bad, err)
		}
	}
}

func TestFilterDay(t *testing.T) {
	buckets := []HourlyBucket{
		{Day: DayToday, Time: "10 PM"},
		{Day: DayTomorrow, Time: "1 AM"},
		{Day: DayTomorrow, Time: "2 AM"},
	}

	got := FilterDay(buckets, DayTomorrow)
	if len(got) != 2 || got[0].Time != "1 AM" || got[1].Time != "2 AM" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if got := FilterDay(buckets, "2030-01-01"); len(got) != 0 {
		t.Fatalf("expected no buckets, got %+v", got)
	}
}
