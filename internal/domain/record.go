package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRecord is a capture row as returned by the gateway. All fields are optional.
type RawRecord struct {
	CaptureID        string             `json:"capture_id,omitempty"`
	DeviceName       string             `json:"device_name,omitempty"`
	CameraID         FlexFloat          `json:"camera_id,omitzero"`
	Latitude         FlexFloat          `json:"latitude,omitzero"`
	Longitude        FlexFloat          `json:"longitude,omitzero"`
	Altitude         FlexFloat          `json:"altitude,omitzero"`
	CaptureTimestamp string             `json:"capture_timestamp,omitempty"`
	CreatedAt        string             `json:"created_at,omitempty"`
	PredictedClass   string             `json:"predicted_class,omitempty"`
	Confidence       FlexFloat          `json:"confidence,omitzero"`
	AllProbabilities map[string]float64 `json:"all_probabilities,omitempty"`
	ImageS3Bucket    string             `json:"image_s3_bucket,omitempty"`
	ImageS3Key       string             `json:"image_s3_key,omitempty"`
	GPSStatus        FlexString         `json:"gps_status,omitzero"`
	NumSatellites    FlexFloat          `json:"num_satellites,omitzero"`
}

// FlexFloat decodes a JSON number or a numeric string. Valid is false for
// null, empty, unparseable, and non-finite values.
type FlexFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid FlexFloat.
func Float(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode numeric string: %w", err)
		}
	} else {
		raw = string(data)
	}

	// Unparseable and out-of-range values are treated as absent rather than
	// failing the whole payload.
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	*f = Float(v)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// FlexString decodes a JSON string, number, or boolean into its textual form.
type FlexString struct {
	Value string
	Valid bool
}

// String returns a valid FlexString.
func String(s string) FlexString {
	return FlexString{Value: s, Valid: true}
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = FlexString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode string: %w", err)
		}
		*s = String(v)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return nil
	}
	*s = String(string(data))
	return nil
}

func (s FlexString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// RiskLevel is the vegetation risk shown on the map.
type RiskLevel string

const (
	RiskNoVegetation RiskLevel = "NO_VEGETATION"
	RiskMedium       RiskLevel = "MEDIUM"
	RiskHigh         RiskLevel = "HIGH"
	RiskBadImage     RiskLevel = "BAD_IMAGE"
)

// ColorPair is the UI text style token and background hex for a risk level.
type ColorPair struct {
	Text string `json:"text"`
	Bg   string `json:"bg"`
}

// Capture is a fully defaulted raw record. Optional numeric fields keep a
// presence flag so display formatting can distinguish "absent" from zero.
type Capture struct {
	CaptureID        string
	DeviceName       string
	CameraID         *int
	Lat              float64
	Lng              float64
	HasLat           bool
	HasLng           bool
	Altitude         float64
	HasAltitude      bool
	Timestamp        string
	PredictedClass   string
	Confidence       float64
	AllProbabilities map[string]float64
	ImageS3Bucket    string
	ImageS3Key       string
	GPSStatus        string
	NumSatellites    *int
}

// DisplayRecord is the UI-ready form of one capture. It is built once and not mutated.
type DisplayRecord struct {
	CaptureID        string             `json:"captureId"`
	VehicleID        string             `json:"vehicleId"`
	Lat              float64            `json:"lat"`
	Lng              float64            `json:"lng"`
	HasCoordinates   bool               `json:"hasCoordinates"`
	ValidCoordinates bool               `json:"validCoordinates"`
	Risk             RiskLevel          `json:"risk"`
	Color            string             `json:"color"`
	BgColor          string             `json:"bgColor"`
	Location         string             `json:"location"`
	Clearance        string             `json:"clearance"`
	Species          string             `json:"species"`
	Confidence       float64            `json:"confidence"`
	AllProbabilities map[string]float64 `json:"allProbabilities"`
	Image            string             `json:"image"`
	Timestamp        string             `json:"timestamp"`
	FullTimestamp    string             `json:"fullTimestamp"`
	DeviceName       string             `json:"deviceName,omitempty"`
	CameraID         *int               `json:"cameraId,omitempty"`
	GPSStatus        string             `json:"gpsStatus,omitempty"`
	NumSatellites    *int               `json:"numSatellites,omitempty"`
	ImageS3Key       string             `json:"imageS3Key,omitempty"`
	ImageS3Bucket    string             `json:"imageS3Bucket,omitempty"`
}
