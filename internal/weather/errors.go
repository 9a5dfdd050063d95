package weather

import (
	"errors"
	"fmt"
)

// Fallback user-facing messages.
const (
	MsgCityRequired     = "Please enter a city name"
	MsgCityNotFound     = "City not found"
	MsgFetchFailed      = "Failed to fetch weather data."
	MsgNoForecastPoints = "no forecast data available"
)

// ValidationError reports user input that blocks an action before any
// request is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// UserMessage returns the text shown to the user.
func (e *ValidationError) UserMessage() string { return e.Message }

// QueryError reports a provider answer with a non-success status.
type QueryError struct {
	Status  int
	Message string
}

func (e *QueryError) Error() string {
	if e.Status == 0 {
		return "query failed: " + e.Message
	}
	return fmt.Sprintf("query failed with status %d: %s", e.Status, e.Message)
}

// UserMessage returns the provider message, or the generic fallback.
func (e *QueryError) UserMessage() string {
	if e.Message == "" {
		return MsgCityNotFound
	}
	return e.Message
}

// TransportError reports a request that produced no usable response:
// network failures, undecodable payloads, or an open circuit.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage returns the generic fetch failure text.
func (e *TransportError) UserMessage() string { return MsgFetchFailed }

// UserMessage extracts the user-facing text from any error returned by this
// package. Errors outside the taxonomy are reported as transport failures.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return MsgFetchFailed
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Outcome classifies err for metrics and logging.
func Outcome(err error) string {
	var (
		v *ValidationError
		q *QueryError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &v):
		return "validation_failure"
	case errors.As(err, &q):
		return "query_failure"
	default:
		return "transport_failure"
	}
}
