package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that carries the HTTP status it is answered with.
// Domains declare their sentinels with New and services return them as is.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidPageParam  = New(http.StatusBadRequest, "invalid page parameter")
	InvalidLimitParam = New(http.StatusBadRequest, "invalid limit parameter")
	ForbiddenError    = New(http.StatusForbidden, "You don't have the required permissions")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (f *Failure) Error() string {
	return f.Message
}

// Is matches any Failure with the same code and message.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}

	return f.Code == other.Code && f.Message == other.Message
}

// BadRequest turns err into a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound reports a missing entity by name.
func NotFound(entityName string) error {
	return New(http.StatusNotFound, entityName)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// GetCode returns the status carried by err, or 500 when err is not a Failure.
func GetCode(err error) int {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}

	return http.StatusInternalServerError
}
