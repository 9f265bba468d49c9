package net

import (
	"net/http"

	perr "feedline/internal/platform/errors"
)

// Envelope wraps every JSON response body
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Success wraps data under status
func Success(status int, data any, requestID string) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  requestID,
		Data:       data,
	}
}

// Failure renders err with the status its code maps to
func Failure(err error, requestID string) Envelope {
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  requestID,
	}
}
