package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/shopspring/decimal"
)

// PlaceholderImageURL is shown for captures without an S3 object.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1502082553048-f009c37129b9?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80"

const (
	unknownVehicle = "UNKNOWN"
	unknownSpecies = "Unknown"
	noClearance    = "N/A"
)

var riskByClass = map[string]RiskLevel{
	"no_vegetation":     RiskNoVegetation,
	"little_vegetation": RiskMedium,
	"lot_vegetation":    RiskHigh,
	"back_of_panel":     RiskBadImage,
}

var colorByRisk = map[RiskLevel]ColorPair{
	RiskBadImage:     {Text: "text-gray-400", Bg: "#6b7280"},
	RiskHigh:         {Text: "text-red-400", Bg: "#dc2626"},
	RiskMedium:       {Text: "text-orange-400", Bg: "#ea580c"},
	RiskNoVegetation: {Text: "text-green-400", Bg: "#16a34a"},
}

// ClassifyRisk maps a classifier label to a risk level. Unknown or empty
// labels classify as RiskNoVegetation.
func ClassifyRisk(predictedClass string) RiskLevel {
	if risk, ok := riskByClass[predictedClass]; ok {
		return risk
	}
	return RiskNoVegetation
}

// RiskColor returns the color pair for a risk level, falling back to the
// RiskNoVegetation pair for anything unrecognized.
func RiskColor(risk RiskLevel) ColorPair {
	if c, ok := colorByRisk[risk]; ok {
		return c
	}
	return colorByRisk[RiskNoVegetation]
}

// ImageURL returns the public S3 URL for a capture image, or the placeholder
// when either the bucket or the key is missing. The object is not checked.
func ImageURL(bucket, key string) string {
	if bucket == "" || key == "" {
		return PlaceholderImageURL
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

// TransformItem converts a raw gateway record into a display record.
func TransformItem(raw RawRecord) DisplayRecord {
	return BuildDisplayRecord(Normalize(raw))
}

// TransformItems converts every raw record, preserving order.
func TransformItems(raws []RawRecord) []DisplayRecord {
	out := make([]DisplayRecord, len(raws))
	for i := range raws {
		out[i] = TransformItem(raws[i])
	}
	return out
}

// BuildDisplayRecord derives every display field from a normalized capture.
func BuildDisplayRecord(c Capture) DisplayRecord {
	risk := ClassifyRisk(c.PredictedClass)
	colors := RiskColor(risk)

	species := c.PredictedClass
	if species == "" {
		species = unknownSpecies
	}

	hasCoords := c.HasLat && c.HasLng

	return DisplayRecord{
		CaptureID:        c.CaptureID,
		VehicleID:        deriveVehicleID(c.DeviceName, c.CaptureID),
		Lat:              c.Lat,
		Lng:              c.Lng,
		HasCoordinates:   hasCoords,
		ValidCoordinates: hasCoords && s2.LatLngFromDegrees(c.Lat, c.Lng).IsValid(),
		Risk:             risk,
		Color:            colors.Text,
		BgColor:          colors.Bg,
		Location:         formatLocation(c),
		Clearance:        formatClearance(c),
		Species:          species,
		Confidence:       c.Confidence,
		AllProbabilities: c.AllProbabilities,
		Image:            ImageURL(c.ImageS3Bucket, c.ImageS3Key),
		Timestamp:        shortTimestamp(c.Timestamp),
		FullTimestamp:    c.Timestamp,
		DeviceName:       c.DeviceName,
		CameraID:         c.CameraID,
		GPSStatus:        c.GPSStatus,
		NumSatellites:    c.NumSatellites,
		ImageS3Key:       c.ImageS3Key,
		ImageS3Bucket:    c.ImageS3Bucket,
	}
}

// deriveVehicleID prefers the device name, then the capture id prefix
// ("raspberry_pi_20260203_175034" -> "raspberry").
func deriveVehicleID(deviceName, captureID string) string {
	if deviceName != "" {
		return deviceName
	}
	if prefix, _, _ := strings.Cut(captureID, "_"); prefix != "" {
		return prefix
	}
	return unknownVehicle
}

// shortTimestamp returns the time-of-day portion of an ISO timestamp without
// fractional seconds: "2026-02-03T17:50:34.000Z" -> "17:50:34". Strings
// without a 'T' separator are returned unchanged.
func shortTimestamp(ts string) string {
	if !strings.Contains(ts, "T") {
		return ts
	}
	timePart := strings.Split(ts, "T")[1]
	short, _, _ := strings.Cut(timePart, ".")
	if short == "" {
		short = timePart
	}
	if short == "" {
		return ts
	}
	return short
}

// formatLocation renders "lat, lng" at four decimal places. A missing
// coordinate leaves its side of the comma empty.
func formatLocation(c Capture) string {
	var lat, lng string
	if c.HasLat {
		lat = fixed(c.Lat, 4)
	}
	if c.HasLng {
		lng = fixed(c.Lng, 4)
	}
	return lat + ", " + lng
}

func formatClearance(c Capture) string {
	if !c.HasAltitude {
		return noClearance
	}
	return fixed(c.Altitude, 1) + " ft"
}

// exactDigits is enough fractional digits to print any float64 exactly.
const exactDigits = 1074

// fixed formats v with the given number of decimals, rounding the exact
// binary value half away from zero. 250.45 is stored as 250.4499... and
// renders as "250.4", the same as the UI's toFixed.
func fixed(v float64, places int32) string {
	exact := new(big.Float).SetFloat64(v).Text('f', exactDigits)
	return decimal.RequireFromString(exact).StringFixed(places)
}
