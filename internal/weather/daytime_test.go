package weather

import (
	"testing"
	"time"
)

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"12 AM", PeriodNight},
		{"4 AM", PeriodNight},
		{"5 AM", PeriodMorning},
		{"11 AM", PeriodMorning},
		{"12 PM", PeriodMorning},
		{"5 PM", PeriodMorning},
		{"6 PM", PeriodNight},
		{"11 PM", PeriodNight},
	}
	for _, tt := range tests {
		got, err := TimeOfDay(tt.label)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.label, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.label, tt.want, got)
		}
	}

	if _, err := TimeOfDay("noon"); err == nil {
		t.Fatalf("expected error for invalid label")
	}
}

func TestDayOrNight(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 18, h, 30, 0, 0, time.UTC) }

	if got := DayOrNight(at(4)); got != Night {
		t.Fatalf("04:30: expected Night, got %s", got)
	}
	if got := DayOrNight(at(5)); got != Day {
		t.Fatalf("05:30: expected Day, got %s", got)
	}
	if got := DayOrNight(at(18)); got != Day {
		t.Fatalf("18:30: expected Day, got %s", got)
	}
	if got := DayOrNight(at(19)); got != Night {
		t.Fatalf("19:30: expected Night, got %s", got)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	got := FormatDisplayDate(time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC))
	if got != "08 January, 2025" {
		t.Fatalf("unexpected display date %q", got)
	}
}

func TestDailyRows(t *testing.T) {
	daily := &Daily{
		Time:    strs("2025-01-18", "bad", "2025-01-20"),
		RainSum: floats(0, 1.2, 3.4),
	}
	daily.Time = append(daily.Time, nil)

	rows, diags := DailyRows(daily)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	if rows[0].Date != "2025-01-18" || rows[0].RainSum == nil || *rows[0].RainSum != 0 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Date != "2025-01-20" || *rows[1].RainSum != 3.4 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[0].TemperatureMax != nil {
		t.Fatalf("expected absent max temperature, got %v", *rows[0].TemperatureMax)
	}
	if len(diags) != 2 || diags[0].Index != 1 || diags[1].Index != 3 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	rows, diags = DailyRows(nil)
	if len(rows) != 0 || len(diags) != 1 {
		t.Fatalf("expected empty rows and one diagnostic, got %v %v", rows, diags)
	}
}
