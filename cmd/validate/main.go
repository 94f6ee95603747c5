// Command validate performs data integrity checks across the location
// fixtures: the raw capture JSON and the display JSON generated from it. It
// verifies record counts, re-runs the domain transform, and checks the
// display invariants the map UI relies on.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/mock/captures.json \
//	  -display data/mock/locations.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawJSON := flag.String("raw", "", "path to raw capture JSON fixture")
	displayJSON := flag.String("display", "", "path to display-record JSON fixture")
	flag.Parse()

	if *rawJSON == "" || *displayJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawJSON, *displayJSON); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, displayPath string) int {
	fmt.Println("=== Location Fixture Validation ===")
	fmt.Println()

	raws, err := loadJSON[domain.RawRecord](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	display, err := loadJSON[domain.DisplayRecord](displayPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load display JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRawIntegrity(raws),
		validateTransformation(display, raws),
		validateDisplayInvariants(display),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw, %d display\n", len(raws), len(display))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Phase 1: raw fixture ──

func validateRawIntegrity(raws []domain.RawRecord) *phase {
	p := &phase{name: "Phase 1: Raw fixture integrity"}
	seen := make(map[string]int, len(raws))
	for i := range raws {
		r := &raws[i]
		if r.CaptureID == "" {
			p.errorf("raw[%d]: empty capture_id", i)
			continue
		}
		if prev, dup := seen[r.CaptureID]; dup {
			p.errorf("raw[%d]: capture_id %q duplicates raw[%d]", i, r.CaptureID, prev)
		}
		seen[r.CaptureID] = i

		if r.Confidence.Valid && (r.Confidence.Value < 0 || r.Confidence.Value > 1) {
			p.errorf("raw[%d] %s: confidence %v outside [0,1]", i, r.CaptureID, r.Confidence.Value)
		}
		for class, prob := range r.AllProbabilities {
			if prob < 0 || prob > 1 {
				p.errorf("raw[%d] %s: probability %s=%v outside [0,1]", i, r.CaptureID, class, prob)
			}
		}
	}
	return p
}

// ── Phase 2: transformation ──

func validateTransformation(display []domain.DisplayRecord, raws []domain.RawRecord) *phase {
	p := &phase{name: "Phase 2: Display transformation"}
	if len(display) != len(raws) {
		p.errorf("count mismatch: %d raw, %d display", len(raws), len(display))
		return p
	}
	for i := range raws {
		want := domain.TransformItem(raws[i])
		if diff := cmp.Diff(want, display[i]); diff != "" {
			p.errorf("display[%d] %s mismatch (-want +got):\n%s", i, raws[i].CaptureID, diff)
		}
	}
	return p
}

// ── Phase 3: display invariants ──

func validateDisplayInvariants(display []domain.DisplayRecord) *phase {
	p := &phase{name: "Phase 3: Display invariants"}
	for i := range display {
		checkDisplayRecord(p, i, &display[i])
	}
	return p
}

func checkDisplayRecord(p *phase, i int, d *domain.DisplayRecord) {
	pf := func(format string, args ...any) {
		p.errorf("display[%d] %s: "+format, append([]any{i, d.CaptureID}, args...)...)
	}

	switch d.Risk {
	case domain.RiskHigh, domain.RiskMedium, domain.RiskNoVegetation, domain.RiskBadImage:
	default:
		pf("unknown risk %q", d.Risk)
	}
	if want := domain.RiskColor(d.Risk); d.Color != want.Text || d.BgColor != want.Bg {
		pf("color pair %s/%s does not match risk %s", d.Color, d.BgColor, d.Risk)
	}
	if d.ValidCoordinates && !d.HasCoordinates {
		pf("validCoordinates set without coordinates")
	}
	if !strings.Contains(d.Location, ", ") {
		pf("location %q is not \"lat, lng\"", d.Location)
	}
	if d.Clearance != "N/A" && !strings.HasSuffix(d.Clearance, " ft") {
		pf("clearance %q is neither N/A nor feet", d.Clearance)
	}
	if d.Image != domain.PlaceholderImageURL && d.Image != domain.ImageURL(d.ImageS3Bucket, d.ImageS3Key) {
		pf("image %q does not match bucket/key", d.Image)
	}
	if d.VehicleID == "" {
		pf("empty vehicleId")
	}
}
