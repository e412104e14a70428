package nodb

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigurationError reports a missing construction parameter or a missing
// mandatory credential. It is raised before any network call is made.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func newConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ServiceError reports a response from the service with status >= 400. The
// error message is the serialized response body. Transport-level failures
// (connection refused, DNS, timeouts) are never converted to ServiceError;
// they propagate from the underlying http.Client unmodified so callers can
// tell "service rejected the request" from "could not reach the service".
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	if e.Body == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Body
}

// NotFound reports whether the service answered 404.
func (e *ServiceError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServiceError extracts a ServiceError from err, if it carries one.
func IsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
