package weather

import (
	"fmt"
	"time"
)

// Time-of-day and day/night classes used to pick display icons.
const (
	PeriodMorning = "Morning"
	PeriodNight   = "Night"

	Day   = "Day"
	Night = "Night"
)

// TimeOfDay classifies an hour label as "Morning" or "Night".
// Night runs from 6 PM to 4 AM inclusive.
func TimeOfDay(label string) (string, error) {
	hour, pm, err := ParseHourLabel(label)
	if err != nil {
		return "", err
	}
	switch {
	case !pm && (hour == 12 || hour <= 4):
		return PeriodNight, nil
	case !pm:
		return PeriodMorning, nil
	case hour == 12 || hour <= 5:
		return PeriodMorning, nil
	default:
		return PeriodNight, nil
	}
}

// DayOrNight reports "Day" for 05:00-18:59 and "Night" otherwise.
func DayOrNight(now time.Time) string {
	if h := now.Hour(); h >= 5 && h <= 18 {
		return Day
	}
	return Night
}

// FormatDisplayDate renders now as e.g. "18 January, 2025".
func FormatDisplayDate(now time.Time) string {
	return now.Format("02 January, 2006")
}

// DailyRows zips the daily arrays into ordered rows. Days without a date are
// skipped and reported.
func DailyRows(daily *Daily) ([]DailyRow, []Diagnostic) {
	if daily == nil || daily.Time == nil {
		return []DailyRow{}, []Diagnostic{{Index: -1, Reason: "no daily time series"}}
	}

	var diags []Diagnostic
	rows := make([]DailyRow, 0, len(daily.Time))
	for i, date := range daily.Time {
		if date == nil {
			diags = append(diags, Diagnostic{Index: i, Reason: "date missing"})
			continue
		}
		if _, err := time.Parse(dateLayout, *date); err != nil {
			diags = append(diags, Diagnostic{Index: i, Reason: fmt.Sprintf("parse date %q: %v", *date, err)})
			continue
		}
		row := DailyRow{Date: *date}
		if v, ok := valueAt(daily.RainSum, i); ok {
			row.RainSum = &v
		}
		if v, ok := valueAt(daily.Temperature2mMax, i); ok {
			row.TemperatureMax = &v
		}
		rows = append(rows, row)
	}
	return rows, diags
}
