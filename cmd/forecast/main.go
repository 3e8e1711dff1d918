package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/weatherapp/forecast/internal/config"
)

// cfg is populated by the root command before any subcommand runs.
var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast - Open-Meteo weather forecasts",
	Long: `Forecast fetches Open-Meteo forecasts for a location, tracks the
latest result per location and derives hourly and weekly views from it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		})))
		return nil
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
