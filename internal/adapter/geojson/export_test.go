package geojson

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLocations(t *testing.T) {
	locations := append(domain.MockLocations(),
		domain.TransformItem(domain.RawRecord{CaptureID: "nofix_1"}),
		domain.TransformItem(domain.RawRecord{CaptureID: "bad_1", Latitude: domain.Float(95), Longitude: domain.Float(10)}),
	)

	fc := FromLocations(locations)

	require.Len(t, fc.Features, 1, "records without valid coordinates are skipped")
	f := fc.Features[0]
	assert.Equal(t, "raspberry_pi_20260203_175034", f.ID)
	require.True(t, f.Geometry.IsPoint())
	assert.Equal(t, []float64{-83.123456, 38.921574}, f.Geometry.Point)
	assert.Equal(t, "HIGH", f.Properties["risk"])
	assert.Equal(t, "#dc2626", f.Properties["bgColor"])
	assert.Equal(t, "raspberry_pi", f.Properties["deviceName"])
	assert.NotEmpty(t, f.Properties["cell"])
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(domain.MockLocations())
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	require.Len(t, decoded.Features, 1)
	assert.Equal(t, "Point", decoded.Features[0].Geometry.Type)
	assert.Equal(t, []float64{-83.123456, 38.921574}, decoded.Features[0].Geometry.Coordinates)
}

func TestCellToken(t *testing.T) {
	token := cellToken(38.921574, -83.123456)

	cell := s2.CellIDFromToken(token)
	require.True(t, cell.IsValid())
	assert.Equal(t, ClusterLevel, cell.Level())
	assert.True(t, cell.Contains(s2.CellIDFromLatLng(s2.LatLngFromDegrees(38.921574, -83.123456))))
	assert.NotEqual(t, token, cellToken(40.0, -80.0))
}

func TestMarshal_Empty(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}
