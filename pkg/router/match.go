package router

import (
	"strings"

	"github.com/dmitrymomot/httpdispatch/pkg/request"
)

// Matcher decides whether a route applies to a request.
type Matcher func(req *request.Request) bool

// MethodIs matches any of the given methods.
func MethodIs(methods ...request.Method) Matcher {
	return func(req *request.Request) bool {
		for _, m := range methods {
			if req.Method() == m {
				return true
			}
		}
		return false
	}
}

// PathEquals matches the exact path.
func PathEquals(path string) Matcher {
	return func(req *request.Request) bool { return req.Path() == path }
}

// PathPrefix matches paths starting with prefix.
func PathPrefix(prefix string) Matcher {
	return func(req *request.Request) bool { return strings.HasPrefix(req.Path(), prefix) }
}

// All matches when every matcher does. All() matches everything.
func All(matchers ...Matcher) Matcher {
	return func(req *request.Request) bool {
		for _, m := range matchers {
			if m != nil && !m(req) {
				return false
			}
		}
		return true
	}
}
