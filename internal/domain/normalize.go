package domain

import "math"

// Normalize applies every default a raw record needs before display logic
// runs. It is the only place optional raw fields are inspected.
func Normalize(raw RawRecord) Capture {
	c := Capture{
		CaptureID:      raw.CaptureID,
		DeviceName:     raw.DeviceName,
		CameraID:       intOrNil(raw.CameraID),
		Lat:            raw.Latitude.Value,
		HasLat:         raw.Latitude.Valid,
		Lng:            raw.Longitude.Value,
		HasLng:         raw.Longitude.Valid,
		PredictedClass: raw.PredictedClass,
		ImageS3Bucket:  raw.ImageS3Bucket,
		ImageS3Key:     raw.ImageS3Key,
		GPSStatus:      raw.GPSStatus.Value,
		NumSatellites:  intOrNil(raw.NumSatellites),
	}

	// A zero altitude is how rigs without a GPS fix report height; treat it as absent.
	if raw.Altitude.Valid && raw.Altitude.Value != 0 {
		c.Altitude = raw.Altitude.Value
		c.HasAltitude = true
	}

	c.Timestamp = raw.CaptureTimestamp
	if c.Timestamp == "" {
		c.Timestamp = raw.CreatedAt
	}

	if raw.Confidence.Valid {
		c.Confidence = raw.Confidence.Value
	}

	c.AllProbabilities = make(map[string]float64, len(raw.AllProbabilities))
	for k, v := range raw.AllProbabilities {
		c.AllProbabilities[k] = v
	}

	return c
}

// intOrNil returns whole numbers that fit in an int, and nil otherwise.
func intOrNil(f FlexFloat) *int {
	if !f.Valid || f.Value != math.Trunc(f.Value) {
		return nil
	}
	if f.Value < float64(math.MinInt) || f.Value >= float64(math.MaxInt) {
		return nil
	}
	n := int(f.Value)
	return &n
}
