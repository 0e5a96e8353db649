package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/outfitcast/pkg/errors"
)

// retryAfterSeconds is advertised when the provider has no data yet.
const retryAfterSeconds = "60"

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status     int
	Code       string
	Message    string
	RetryAfter string
	Err        error
}

// errorMapping is the transport form of a domain error code.
type errorMapping struct {
	status     int
	code       string
	retryAfter string
}

// Forecast failures map to 502, which withRetry does not replay.
var outfitErrors = map[string]errorMapping{
	"invalid_input":    {status: http.StatusBadRequest, code: "invalid_request"},
	"credential_error": {status: http.StatusBadRequest, code: "credential_error"},
	"data_unavailable": {status: http.StatusBadGateway, code: "data_unavailable", retryAfter: retryAfterSeconds},
	"provider_error":   {status: http.StatusBadGateway, code: "forecast_unavailable"},
	"malformed_input":  {status: http.StatusBadGateway, code: "forecast_unavailable"},
	"upstream_error":   {status: http.StatusBadGateway, code: "forecast_unavailable"},
}

var credentialErrors = map[string]errorMapping{
	"invalid_input": {status: http.StatusBadRequest, code: "invalid_request"},
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromAppError maps a service error through mappings. Errors without a known
// AppError code become a 500 carrying fallbackCode.
func fromAppError(err error, mappings map[string]errorMapping, fallbackCode string) *HTTPError {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, fallbackCode, err.Error(), err)
	}
	m, ok := mappings[appErr.Code]
	if !ok {
		return NewHTTPError(http.StatusInternalServerError, fallbackCode, appErr.Message, err)
	}
	httpErr := NewHTTPError(m.status, m.code, appErr.Message, err)
	httpErr.RetryAfter = m.retryAfter
	return httpErr
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
