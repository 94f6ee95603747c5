// Command genmock turns a raw capture fixture into the display-record
// fixture consumed by the map UI tests, and optionally a GeoJSON layer. It
// runs the same domain transform the locations service uses.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -raw data/mock/captures.json \
//	  -display-out data/mock/locations.json \
//	  -geojson-out data/mock/locations.geojson
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/geojson"
	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawPath := flag.String("raw", "", "path to a JSON array of raw capture records")
	displayOut := flag.String("display-out", "", "output path for display-record JSON")
	geojsonOut := flag.String("geojson-out", "", "optional output path for a GeoJSON FeatureCollection")
	flag.Parse()

	if *rawPath == "" || *displayOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw, -display-out")
	}

	raws, err := readRaw(*rawPath)
	if err != nil {
		return fmt.Errorf("reading raw fixture: %w", err)
	}
	log.Printf("read %d raw records", len(raws))

	locs := domain.TransformItems(raws)

	data, err := json.MarshalIndent(locs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal display records: %w", err)
	}
	if err := writeFile(*displayOut, data); err != nil {
		return fmt.Errorf("writing display fixture: %w", err)
	}
	log.Printf("wrote display fixture: %s", *displayOut)

	if *geojsonOut != "" {
		gj, err := geojson.Marshal(locs)
		if err != nil {
			return fmt.Errorf("marshal geojson: %w", err)
		}
		if err := writeFile(*geojsonOut, gj); err != nil {
			return fmt.Errorf("writing geojson: %w", err)
		}
		log.Printf("wrote geojson: %s", *geojsonOut)
	}

	printStats(locs)
	return nil
}

func readRaw(path string) ([]domain.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raws []domain.RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type deviceCount struct {
	device string
	count  int
}

// printStats reports counts useful when updating test assertions.
func printStats(locs []domain.DisplayRecord) {
	riskCounts := map[domain.RiskLevel]int{}
	deviceCounts := map[string]int{}
	var withCoords, invalidCoords, placeholder int

	for i := range locs {
		l := &locs[i]
		riskCounts[l.Risk]++
		deviceCounts[l.VehicleID]++
		if l.HasCoordinates {
			withCoords++
			if !l.ValidCoordinates {
				invalidCoords++
			}
		}
		if l.Image == domain.PlaceholderImageURL {
			placeholder++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(locs))
	fmt.Printf("By risk: HIGH=%d, MEDIUM=%d, NO_VEGETATION=%d, BAD_IMAGE=%d\n",
		riskCounts[domain.RiskHigh], riskCounts[domain.RiskMedium],
		riskCounts[domain.RiskNoVegetation], riskCounts[domain.RiskBadImage])
	fmt.Printf("With coordinates: %d (out of range: %d)\n", withCoords, invalidCoords)
	fmt.Printf("Placeholder images: %d\n", placeholder)

	dc := make([]deviceCount, 0, len(deviceCounts))
	for d, c := range deviceCounts {
		dc = append(dc, deviceCount{d, c})
	}
	sort.Slice(dc, func(i, j int) bool { return dc[i].count > dc[j].count })
	fmt.Printf("Vehicles (%d): ", len(dc))
	for _, d := range dc {
		fmt.Printf("%s=%d ", d.device, d.count)
	}
	fmt.Println()
}
