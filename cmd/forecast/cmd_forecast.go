package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weatherapp/forecast/internal/location"
	"github.com/weatherapp/forecast/internal/weather"
)

var (
	flagLat float64
	flagLon float64
	flagDay string
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Print the upcoming hourly forecast",
	Long: `Fetch a forecast once and print the hourly samples from now on,
labelled Today, Tomorrow or by date. Without --lat/--lon the first
configured location is used.`,
	RunE: runHourly,
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Print the weekly rain forecast",
	Long:  `Fetch a forecast once and print one row per forecast day.`,
	RunE:  runDaily,
}

func init() {
	for _, c := range []*cobra.Command{hourlyCmd, dailyCmd} {
		c.Flags().Float64Var(&flagLat, "lat", 0, "latitude in decimal degrees")
		c.Flags().Float64Var(&flagLon, "lon", 0, "longitude in decimal degrees")
		rootCmd.AddCommand(c)
	}
	hourlyCmd.Flags().StringVar(&flagDay, "day", "", "only show one day (Today, Tomorrow or YYYY-MM-DD)")
}

func runHourly(cmd *cobra.Command, args []string) error {
	coords, service, err := fetchOnce(cmd)
	if err != nil {
		return err
	}

	buckets, diags, err := service.Hourly(coords, flagDay)
	if err != nil {
		return err
	}

	now, err := service.LocalNow(coords)
	if err != nil {
		return err
	}
	printHeader(fmt.Sprintf("Hourly forecast for %s (%s, %s)", coords.Key(),
		weather.FormatDisplayDate(now), weather.DayOrNight(now)))

	if len(buckets) == 0 {
		fmt.Println("No upcoming hours in this forecast.")
	}
	day := ""
	for _, b := range buckets {
		if b.Day != day {
			day = b.Day
			fmt.Printf("\n%s\n", day)
		}
		period, _ := weather.TimeOfDay(b.Time)
		fmt.Printf("    %-6s %-8s %6.1f°C  %3d%%  %5.1f km/h  UV %.1f\n",
			b.Time, period, b.Temperature, b.Humidity, b.WindSpeed, b.UVIndex)
	}
	printDiagnostics(diags)
	printFooter()
	return nil
}

func runDaily(cmd *cobra.Command, args []string) error {
	coords, service, err := fetchOnce(cmd)
	if err != nil {
		return err
	}

	rows, diags, err := service.Daily(coords)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("Weekly forecast for %s", coords.Key()))
	for _, r := range rows {
		fmt.Printf("    %s  rain %-9s  max %s\n", r.Date,
			formatOptional(r.RainSum, "mm"), formatOptional(r.TemperatureMax, "°C"))
	}
	printDiagnostics(diags)
	printFooter()
	return nil
}

// fetchOnce resolves the target coordinates and waits for a single fetch.
func fetchOnce(cmd *cobra.Command) (weather.Coordinates, *weather.Service, error) {
	ctx := cmd.Context()

	var coords weather.Coordinates
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		coords = weather.Coordinates{Latitude: flagLat, Longitude: flagLon}
	} else {
		c, err := location.Static{Locations: cfg.Locations}.Current(ctx)
		if err != nil {
			return coords, nil, fmt.Errorf("no coordinates: pass --lat/--lon or set WEATHER_LATITUDES/WEATHER_LONGITUDES: %w", err)
		}
		coords = c
	}

	service := newService(ctx, cfg)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout+cfg.ReadTimeout)
	defer cancel()
	if _, err := service.Refresh(ctx, coords); err != nil {
		return coords, nil, err
	}
	return coords, service, nil
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

func printDiagnostics(diags []weather.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Printf("\nSkipped %d sample(s):\n", len(diags))
	for _, d := range diags {
		fmt.Printf("    %s\n", d)
	}
}

func printHeader(title string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 60))
}

func printFooter() {
	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
