package server

import (
	"errors"
	"net/http"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

var (
	errCSRF           = StatusError{Code: http.StatusForbidden, Err: errors.New("server: invalid csrf token")}
	errNoResult       = StatusError{Code: http.StatusNotFound, Err: errors.New("server: nothing submitted yet")}
	errUnknownFormat  = StatusError{Code: http.StatusBadRequest, Err: errors.New("server: unsupported output format")}
	errMalformedInput = StatusError{Code: http.StatusBadRequest, Err: errors.New("server: malformed form body")}
)

// statusOf maps err to an HTTP status, defaulting to 500.
func statusOf(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}
