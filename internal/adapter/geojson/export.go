// Package geojson renders display records as a GeoJSON FeatureCollection for
// map clients.
package geojson

import (
	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/golang/geo/s2"
	geo "github.com/paulmach/go.geojson"
)

// ClusterLevel is the S2 cell level used for the cell property. Level 13
// cells are roughly 1km across.
const ClusterLevel = 13

// FromLocations builds one point feature per location. Locations without
// valid coordinates are skipped.
func FromLocations(locations []domain.DisplayRecord) *geo.FeatureCollection {
	fc := geo.NewFeatureCollection()
	for i := range locations {
		if f := feature(locations[i]); f != nil {
			fc.AddFeature(f)
		}
	}
	return fc
}

// Marshal encodes locations as GeoJSON.
func Marshal(locations []domain.DisplayRecord) ([]byte, error) {
	return FromLocations(locations).MarshalJSON()
}

func feature(loc domain.DisplayRecord) *geo.Feature {
	if !loc.ValidCoordinates {
		return nil
	}

	// GeoJSON positions are [lng, lat].
	f := geo.NewPointFeature([]float64{loc.Lng, loc.Lat})
	f.ID = loc.CaptureID
	f.SetProperty("vehicleId", loc.VehicleID)
	f.SetProperty("risk", string(loc.Risk))
	f.SetProperty("color", loc.Color)
	f.SetProperty("bgColor", loc.BgColor)
	f.SetProperty("location", loc.Location)
	f.SetProperty("clearance", loc.Clearance)
	f.SetProperty("species", loc.Species)
	f.SetProperty("confidence", loc.Confidence)
	f.SetProperty("image", loc.Image)
	f.SetProperty("timestamp", loc.Timestamp)
	f.SetProperty("fullTimestamp", loc.FullTimestamp)
	f.SetProperty("cell", cellToken(loc.Lat, loc.Lng))
	if loc.DeviceName != "" {
		f.SetProperty("deviceName", loc.DeviceName)
	}
	return f
}

func cellToken(lat, lng float64) string {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(ClusterLevel).ToToken()
}
