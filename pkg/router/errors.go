package router

import "errors"

var (
	// ErrNoResponse is returned when a handler returns neither a response nor an error.
	ErrNoResponse = errors.New("router: handler returned no response")

	// ErrInvalidRoute is returned for canned route definitions that cannot be served.
	ErrInvalidRoute = errors.New("router: invalid route definition")
)
