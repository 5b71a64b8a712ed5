package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// ApiError is the JSON body returned for every failed request
type ApiError struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

var (
	BadRequest   = func(detail string) *ApiError { return New(http.StatusBadRequest, "Bad Request", detail) }
	Unauthorized = func(detail string) *ApiError { return New(http.StatusUnauthorized, "Unauthorized", detail) }
	Forbidden    = func(detail string) *ApiError { return New(http.StatusForbidden, "Forbidden", detail) }
	NotFound     = func(detail string) *ApiError { return New(http.StatusNotFound, "Not Found", detail) }
	Conflict     = func(detail string) *ApiError { return New(http.StatusConflict, "Conflict", detail) }
	TooMany      = func(detail string) *ApiError {
		return New(http.StatusTooManyRequests, "Too Many Requests", detail)
	}
	Internal = func(detail string) *ApiError {
		return New(http.StatusInternalServerError, "Internal Server Error", detail)
	}
	BadGateway  = func(detail string) *ApiError { return New(http.StatusBadGateway, "Bad Gateway", detail) }
	Unavailable = func(detail string) *ApiError {
		return New(http.StatusServiceUnavailable, "Service Unavailable", detail)
	}
)

func New(code int, message, detail string) *ApiError {
	return &ApiError{
		Code:    code,
		Message: message,
		Detail:  detail,
	}
}

func (e *ApiError) WithRequestID(requestID string) *ApiError {
	e.RequestID = requestID
	return e
}

func (e *ApiError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *ApiError) StatusCode() int {
	return e.Code
}

// Kind tags a domain error with the status it should surface as
type Kind struct {
	code int
	msg  string
}

func (k *Kind) Error() string { return k.msg }

// Code is the HTTP status carried by the kind
func (k *Kind) Code() int { return k.code }

func NewKind(code int, msg string) *Kind {
	return &Kind{code: code, msg: msg}
}

// FromError converts any error into an ApiError. Errors wrapping a *Kind keep
// its status and message; anything else becomes a 500 without leaking detail.
func FromError(err error) *ApiError {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var kind *Kind
	if errors.As(err, &kind) {
		return New(kind.code, http.StatusText(kind.code), kind.msg)
	}
	return Internal("unexpected error")
}
