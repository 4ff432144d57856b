package response

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/httpdispatch/pkg/request"
)

// CORS header values applied to every response.
const (
	AllowOrigin  = "*"
	AllowHeaders = "Content-Type, Authorization"
	MaxAge       = "86400"
)

// AllowMethods is the advertised method list.
var AllowMethods = joinMethods(request.Methods)

func joinMethods(ms []request.Method) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// SetCORS writes the CORS header set into h, replacing existing values.
func SetCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", AllowOrigin)
	h.Set("Access-Control-Allow-Methods", AllowMethods)
	h.Set("Access-Control-Allow-Headers", AllowHeaders)
	h.Set("Access-Control-Max-Age", MaxAge)
}
