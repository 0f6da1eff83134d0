package httputil

import (
	"context"
	"errors"
	"net/http"
)

// HTTPErrorInfo contains the HTTP status code, message and optional structured details
// for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
	Details any
}

// ErrorBody is the JSON envelope written for failed requests.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Body renders the info as a response envelope.
func (i HTTPErrorInfo) Body() ErrorBody {
	return ErrorBody{Error: i.Message, Details: i.Details}
}

// DetailedError is implemented by errors that carry client-facing details, such as
// per-field validation problems.
type DetailedError interface {
	error
	Details() any
}

// ErrorMapping represents a single error to HTTP status/message mapping.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// ErrorMapper maps domain errors to HTTP status codes and messages. Unmatched errors
// fall back to a generic internal error so internal detail never leaks.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		mappings:       make([]ErrorMapping, 0),
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

// WithMapping adds an error mapping. Mappings are checked in registration order.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{
		Error:   err,
		Status:  status,
		Message: message,
	})
	return m
}

// WithMappings adds several mappings at once.
func (m *ErrorMapper) WithMappings(mappings ...ErrorMapping) *ErrorMapper {
	m.mappings = append(m.mappings, mappings...)
	return m
}

// WithDefault sets the default status and message for unmatched errors.
func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.defaultStatus = status
	m.defaultMessage = message
	return m
}

// Map converts an error to HTTP status, message and details.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			info := HTTPErrorInfo{Status: mapping.Status, Message: mapping.Message}
			var detailed DetailedError
			if info.Status < http.StatusInternalServerError && errors.As(err, &detailed) {
				info.Details = detailed.Details()
			}
			return info
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}
