package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
Delivery tracking system.

Usage:
  delivery-tracker -mode=<mode> [-config-path=<path>]

Modes:
  tracking-service   Ingests courier fixes, resolves routes and ETAs, publishes fleet snapshots.
  monitor-service    Aggregates live fleet state and serves the operator console.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig dumps the effective configuration at startup with
// credentials masked.
func PrintConfig(cfg *Config) {
	masked := *cfg
	masked.Database.Password = mask(masked.Database.Password)
	masked.RabbitMQ.Password = mask(masked.RabbitMQ.Password)
	masked.Redis.Password = mask(masked.Redis.Password)
	masked.Providers.DirectionsAPIKey = mask(masked.Providers.DirectionsAPIKey)
	masked.Providers.LocationIQAPIKey = mask(masked.Providers.LocationIQAPIKey)
	masked.Auth.JWTSecret = mask(masked.Auth.JWTSecret)

	fmt.Printf("running with configuration: %+v\n", masked)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}
