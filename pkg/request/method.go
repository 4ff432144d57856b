package request

import "fmt"

// Method is an HTTP request method supported by the dispatcher.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
)

// Methods lists every supported method in the order advertised to CORS clients.
var Methods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodHead,
	MethodPatch,
	MethodOptions,
}

// ParseMethod validates s against the supported set. Matching is case-sensitive
// because HTTP method tokens are.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

func (m Method) String() string { return string(m) }
