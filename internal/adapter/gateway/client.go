package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/couchcryptid/vegetation-risk-locations/internal/observability"
	"github.com/google/uuid"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client implements domain.CaptureSource against the captures gateway.
type Client struct {
	endpoint   string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a gateway client. An empty endpoint yields a client whose
// every fetch fails with a ConfigurationError.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Configured reports whether the client has an endpoint.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// FetchRecords lists raw capture records matching q.
func (c *Client) FetchRecords(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
	if !c.Configured() {
		return nil, &ConfigurationError{}
	}

	fullURL := c.endpoint + "?" + q.Values().Encode()
	requestID := uuid.NewString()
	c.logger.Debug("fetching captures", "url", fullURL, "request_id", requestID)

	start := time.Now()
	records, err := c.doRequest(ctx, fullURL, requestID)
	c.metrics.GatewayAPIDuration.Observe(time.Since(start).Seconds())
	c.metrics.GatewayRequests.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, requestID string) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "captures request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorBodyMessage(body),
		}
		if httpErr.Message == "" {
			httpErr.Message = fmt.Sprintf("API request failed: %s", resp.Status)
		}
		c.logger.Error("captures API error", "status", resp.StatusCode, "error", httpErr.Message, "request_id", requestID)
		return nil, httpErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	return decodeEnvelope(body)
}

// envelope is the gateway's success body: {"items": [...]} or {"error": "..."}.
type envelope struct {
	Items json.RawMessage `json:"items"`
	Error json.RawMessage `json:"error"`
}

func decodeEnvelope(body []byte) ([]domain.RawRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, &TransportError{Op: "decode response", Err: errors.New("expected a JSON object")}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}

	if msg, ok := truthyMessage(env.Error); ok {
		return nil, &ApplicationError{Message: msg}
	}

	// A missing or non-array items field is an empty listing.
	items := bytes.TrimSpace(env.Items)
	if len(items) == 0 || items[0] != '[' {
		return []domain.RawRecord{}, nil
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(items, &records); err != nil {
		return nil, &TransportError{Op: "decode items", Err: err}
	}
	return records, nil
}

// errorBodyMessage extracts "error" or, failing that, "message" from a failed
// response body. It returns "" when neither is usable.
func errorBodyMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg, ok := truthyMessage(payload.Error); ok {
		return msg
	}
	if msg, ok := truthyMessage(payload.Message); ok {
		return msg
	}
	return ""
}

// truthyMessage turns an error field into a message. Absent, null, false,
// zero, and empty-string values carry no error.
func truthyMessage(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return Reason(err) + "_error"
}
