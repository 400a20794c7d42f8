package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/acucaradas/delivery-tracking-system/config"
	"github.com/acucaradas/delivery-tracking-system/pkg/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	seed       = flag.Bool("seed", false, "Insert a demo store, driver and hotspot if the tables are empty")
)

// Smoke tool for a local database: prints table counts and optionally
// seeds demo rows for manual testing.
func main() {
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	client, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Pool.Close()

	printCounts(client.Pool)

	if *seed {
		seedDemoRows(client.Pool)
		printCounts(client.Pool)
	}
}

func printCounts(db *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, table := range []string{"drivers", "orders", "stores", "hotspots", "driver_fixes"} {
		var n int64
		if err := db.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&n); err != nil {
			log.Fatalf("count %s: %v", table, err)
		}
		fmt.Printf("%-14s %d\n", table, n)
	}
}

func seedDemoRows(db *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := db.Begin(ctx)
	if err != nil {
		log.Fatalf("seed: begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	statements := []string{
		`INSERT INTO stores (id, name, address, latitude, longitude, is_open)
		 SELECT gen_random_uuid(), 'Demo Kitchen', '1 Abay Ave', 43.2400, 76.8900, true
		 WHERE NOT EXISTS (SELECT 1 FROM stores)`,
		`INSERT INTO drivers (id, name, vehicle_kind, is_available)
		 SELECT gen_random_uuid(), 'Demo Courier', 'bike', true
		 WHERE NOT EXISTS (SELECT 1 FROM drivers)`,
		`INSERT INTO hotspots (id, name, latitude, longitude, radius_meters, demand_level, active)
		 SELECT gen_random_uuid(), 'Demo Hotspot', 43.2550, 76.9100, 800, 'high', true
		 WHERE NOT EXISTS (SELECT 1 FROM hotspots)`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("seed: commit: %v", err)
	}
	fmt.Println("seeded demo rows")
}
