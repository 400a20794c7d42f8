package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/acucaradas/delivery-tracking-system/config"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/googlemaps"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/service/route"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	requests   = flag.Int("n", 10, "Number of synthetic route resolutions")
	originLat  = flag.Float64("origin-lat", 43.238949, "Origin latitude")
	originLng  = flag.Float64("origin-lng", 76.889709, "Origin longitude")
	destLat    = flag.Float64("dest-lat", 43.222015, "Destination latitude")
	destLng    = flag.Float64("dest-lng", 76.851250, "Destination longitude")
)

// Bench tool for the directions provider: runs N resolutions for one
// origin/destination pair and prints latency and success ratios.
func main() {
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Providers.DirectionsAPIKey == "" {
		log.Fatal("PROVIDERS_DIRECTIONS_API_KEY is not set")
	}

	l := logger.InitLogger("routebench", logger.LevelInfo)

	directions := googlemaps.NewDirections(
		cfg.Providers.DirectionsAPIKey,
		cfg.Providers.DirectionsBaseURL,
		cfg.Providers.RequestTimeout,
	)
	routes := route.New(directions, "routebench", l)

	report := routes.LoadTest(context.Background(), *requests,
		models.GeoCoordinate{Latitude: *originLat, Longitude: *originLng},
		models.GeoCoordinate{Latitude: *destLat, Longitude: *destLng},
	)

	fmt.Printf("requests:    %d\n", report.Requests)
	fmt.Printf("successful:  %d\n", report.Successful)
	fmt.Printf("failed:      %d\n", report.Failed)
	fmt.Printf("success:     %.0f%%\n", report.SuccessRate*100)
	fmt.Printf("avg latency: %s\n", report.AverageLatency)

	if report.Failed == report.Requests && report.Requests > 0 {
		os.Exit(1)
	}
}
