package domain

import (
	"context"
	"net/url"
	"strconv"
)

// DefaultLimit is the page size requested when a query leaves Limit unset.
const DefaultLimit = 100

// Query filters a capture listing. Zero-valued fields are not sent.
type Query struct {
	Limit          int
	DeviceName     string
	StartTimestamp string
	EndTimestamp   string
}

// Values encodes the query parameters understood by the gateway. Limit is always present.
func (q Query) Values() url.Values {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	v := url.Values{"limit": {strconv.Itoa(limit)}}
	if q.DeviceName != "" {
		v.Set("device_name", q.DeviceName)
	}
	if q.StartTimestamp != "" {
		v.Set("start_timestamp", q.StartTimestamp)
	}
	if q.EndTimestamp != "" {
		v.Set("end_timestamp", q.EndTimestamp)
	}
	return v
}

// CaptureSource lists raw capture records.
type CaptureSource interface {
	FetchRecords(ctx context.Context, q Query) ([]RawRecord, error)
}
