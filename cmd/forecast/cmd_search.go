package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weatherapp/forecast/internal/location"
)

var searchCmd = &cobra.Command{
	Use:   "search <place>",
	Short: "Look up coordinates for a place name",
	Long:  `Resolve a place such as "Paris, FR" through Google Geocoding. Requires GOOGLE_GEOCODING_API_KEY.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	resolver, err := location.NewGoogle(cfg.GeocodingAPIKey)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	coords, err := resolver.Resolve(cmd.Context(), query)
	if err != nil {
		return err
	}

	locality, err := resolver.Locality(cmd.Context(), coords)
	if err != nil {
		locality = "unknown"
	}

	fmt.Printf("%s\n", query)
	fmt.Printf("    Locality: %s\n", locality)
	fmt.Printf("    Latitude: %.4f\n", coords.Latitude)
	fmt.Printf("    Longitude: %.4f\n", coords.Longitude)
	return nil
}
