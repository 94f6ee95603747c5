// Command locations fetches the current vegetation-risk locations once and
// writes them to stdout as display-record JSON or a GeoJSON layer. When the
// gateway is unconfigured or failing it prints the mock set instead and
// logs why.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/gateway"
	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/geojson"
	"github.com/couchcryptid/vegetation-risk-locations/internal/config"
	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/couchcryptid/vegetation-risk-locations/internal/locations"
	"github.com/couchcryptid/vegetation-risk-locations/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("locations failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	limit := flag.Int("limit", 0, "maximum records to request (default FETCH_LIMIT)")
	device := flag.String("device", "", "only return captures from this device")
	start := flag.String("start", "", "start_timestamp filter")
	end := flag.String("end", "", "end_timestamp filter")
	id := flag.String("id", "", "print only the location with this capture id")
	format := flag.String("format", "json", "output format: json or geojson")
	flag.Parse()

	if *format != "json" && *format != "geojson" {
		return fmt.Errorf("unknown -format %q", *format)
	}

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout carries the locations, so logs go to stderr.
	logger := observability.NewCLILogger(cfg)
	metrics := observability.NewMetrics()

	client := gateway.NewClient(cfg.GatewayEndpoint, cfg.GatewayTimeout, logger, metrics)
	if !client.Configured() {
		logger.Warn("LOCATIONS_API_ENDPOINT not set, output will be mock data")
	}
	svc := locations.NewService(client, logger, metrics,
		locations.WithTTL(cfg.CacheTTL),
		locations.WithDefaultLimit(cfg.FetchLimit),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var locs []domain.DisplayRecord
	if *id != "" {
		loc, ok := svc.LocationByID(ctx, *id)
		if !ok {
			return fmt.Errorf("no location with capture id %q", *id)
		}
		locs = []domain.DisplayRecord{loc}
	} else {
		res := svc.FetchLocations(ctx, domain.Query{
			Limit:          *limit,
			DeviceName:     *device,
			StartTimestamp: *start,
			EndTimestamp:   *end,
		})
		locs = res.Locations
		logger.Info("locations ready", "source", res.Source, "count", len(locs))
	}

	if svc.UsingMockData() {
		logger.Warn("served mock data", "last_error", svc.LastError())
	}

	return write(os.Stdout, *format, locs)
}

func write(f *os.File, format string, locs []domain.DisplayRecord) error {
	if format == "geojson" {
		data, err := geojson.Marshal(locs)
		if err != nil {
			return fmt.Errorf("marshal geojson: %w", err)
		}
		_, err = f.Write(append(data, '\n'))
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(locs)
}
