package gateway

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is wrapped by ConfigurationError.
var ErrNotConfigured = errors.New("API endpoint not configured")

// ConfigurationError reports a client that has no endpoint to call.
type ConfigurationError struct{}

func (e *ConfigurationError) Error() string { return ErrNotConfigured.Error() }
func (e *ConfigurationError) Unwrap() error { return ErrNotConfigured }

// HTTPError reports a non-2xx gateway response. Message comes from the
// response body when it carries one.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string { return e.Message }

// ApplicationError reports a 2xx response whose body carries an error field.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// TransportError reports a failed round trip or an undecodable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// Failure reasons used as metric labels and log fields.
const (
	ReasonConfiguration = "configuration"
	ReasonHTTP          = "http"
	ReasonApplication   = "application"
	ReasonTransport     = "transport"
	ReasonUnknown       = "unknown"
)

// Reason classifies err into one of the Reason constants.
func Reason(err error) string {
	var (
		cfgErr  *ConfigurationError
		httpErr *HTTPError
		appErr  *ApplicationError
		tErr    *TransportError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ReasonConfiguration
	case errors.As(err, &httpErr):
		return ReasonHTTP
	case errors.As(err, &appErr):
		return ReasonApplication
	case errors.As(err, &tErr):
		return ReasonTransport
	default:
		return ReasonUnknown
	}
}
