package request

import "errors"

var (
	// ErrMalformedRequest is returned when the request line or headers cannot be parsed.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnsupportedMethod is returned for methods outside the supported set.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrBodyTooLarge is returned when the body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrReadBody is returned when the body cannot be read from the connection.
	ErrReadBody = errors.New("failed to read request body")

	// ErrInvalidEncoding is returned when body bytes are not valid text in the declared charset.
	ErrInvalidEncoding = errors.New("request body is not valid text in the declared charset")

	// ErrInvalidTarget is returned by New when the request target is empty.
	ErrInvalidTarget = errors.New("invalid request target")
)
