package domain

// MockLocations returns the fallback fixture shown when live data is
// unavailable. It is a literal record, not the output of TransformItem, and a
// fresh copy is returned on every call.
func MockLocations() []DisplayRecord {
	cameraID := 0
	return []DisplayRecord{
		{
			CaptureID:        "raspberry_pi_20260203_175034",
			VehicleID:        "raspberry_pi",
			Lat:              38.921574,
			Lng:              -83.123456,
			HasCoordinates:   true,
			ValidCoordinates: true,
			Risk:             RiskHigh,
			Color:            "text-red-400",
			BgColor:          "#dc2626",
			Location:         "38.9216, -83.1235",
			Clearance:        "250.5 ft",
			Species:          "back_of_panel",
			Confidence:       0.5306,
			AllProbabilities: map[string]float64{},
			Image:            PlaceholderImageURL,
			Timestamp:        "17:50:34",
			FullTimestamp:    "2026-02-03T17:50:34Z",
			DeviceName:       "raspberry_pi",
			CameraID:         &cameraID,
		},
	}
}
