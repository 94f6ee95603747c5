package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlexFloat
	}{
		{"number", `38.921574`, FlexFloat{Value: 38.921574, Valid: true}},
		{"numeric string", `"-83.123456"`, FlexFloat{Value: -83.123456, Valid: true}},
		{"padded string", `" 250.5 "`, FlexFloat{Value: 250.5, Valid: true}},
		{"zero", `0`, FlexFloat{Value: 0, Valid: true}},
		{"null", `null`, FlexFloat{}},
		{"empty string", `""`, FlexFloat{}},
		{"garbage string", `"north"`, FlexFloat{}},
		{"NaN string", `"NaN"`, FlexFloat{Value: 0, Valid: false}},
		{"boolean", `true`, FlexFloat{}},
		{"out of range", `1e400`, FlexFloat{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexFloat
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want.Valid, got.Valid)
			if tt.want.Valid {
				assert.Equal(t, tt.want.Value, got.Value)
			}
		})
	}
}

func TestFlexString_Unmarshal(t *testing.T) {
	var rec struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexString `json:"d"`
		E FlexString `json:"e"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"3D fix","b":3,"c":true,"d":null,"e":{"x":1}}`), &rec))

	assert.Equal(t, String("3D fix"), rec.A)
	assert.Equal(t, String("3"), rec.B)
	assert.Equal(t, String("true"), rec.C)
	assert.False(t, rec.D.Valid)
	assert.False(t, rec.E.Valid)
}

func TestRawRecord_MissingFieldsAreAbsent(t *testing.T) {
	var raw RawRecord
	require.NoError(t, json.Unmarshal([]byte(`{"capture_id":"pi_1"}`), &raw))

	assert.Equal(t, "pi_1", raw.CaptureID)
	assert.False(t, raw.Latitude.Valid)
	assert.False(t, raw.Longitude.Valid)
	assert.False(t, raw.Altitude.Valid)
	assert.False(t, raw.CameraID.Valid)
	assert.Nil(t, raw.AllProbabilities)
}

func TestRawRecord_MarshalOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(RawRecord{CaptureID: "pi_1", Latitude: Float(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"capture_id":"pi_1","latitude":1.5}`, string(data))
}

func TestNormalize(t *testing.T) {
	t.Run("zero altitude is absent", func(t *testing.T) {
		c := Normalize(RawRecord{Altitude: Float(0)})
		assert.False(t, c.HasAltitude)
	})

	t.Run("capture timestamp preferred over created_at", func(t *testing.T) {
		c := Normalize(RawRecord{CaptureTimestamp: "a", CreatedAt: "b"})
		assert.Equal(t, "a", c.Timestamp)
	})

	t.Run("fractional camera id dropped", func(t *testing.T) {
		c := Normalize(RawRecord{CameraID: Float(1.5), NumSatellites: Float(7)})
		assert.Nil(t, c.CameraID)
		require.NotNil(t, c.NumSatellites)
		assert.Equal(t, 7, *c.NumSatellites)
	})

	t.Run("out of range integers dropped", func(t *testing.T) {
		c := Normalize(RawRecord{CameraID: Float(1e300), NumSatellites: Float(-1e19)})
		assert.Nil(t, c.CameraID)
		assert.Nil(t, c.NumSatellites)
	})

	t.Run("non-numeric camera id absent", func(t *testing.T) {
		var raw RawRecord
		require.NoError(t, json.Unmarshal([]byte(`{"camera_id":"cam0","gps_status":"3D fix"}`), &raw))
		c := Normalize(raw)
		assert.Nil(t, c.CameraID)
		assert.Equal(t, "3D fix", c.GPSStatus)
	})

	t.Run("probabilities copied", func(t *testing.T) {
		probs := map[string]float64{"lot_vegetation": 0.9}
		c := Normalize(RawRecord{AllProbabilities: probs})
		probs["lot_vegetation"] = 0
		assert.Equal(t, 0.9, c.AllProbabilities["lot_vegetation"])
	})
}
