package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/httpdispatch/pkg/logger"
	"github.com/dmitrymomot/httpdispatch/pkg/request"
	"github.com/dmitrymomot/httpdispatch/pkg/response"
)

// Handler answers one decoded request.
type Handler interface {
	Serve(ctx context.Context, req *request.Request) (*response.Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *request.Request) (*response.Response, error)

func (f HandlerFunc) Serve(ctx context.Context, req *request.Request) (*response.Response, error) {
	return f(ctx, req)
}

// Route pairs a matcher with the handler that serves matching requests.
type Route struct {
	Name    string
	Match   Matcher
	Handler Handler
}

// Router dispatches requests through an ordered list of routes.
type Router struct {
	routes   []Route
	fallback Handler
	logger   *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithRoutes appends routes in order. Routes without matcher or handler are skipped.
func WithRoutes(routes ...Route) Option {
	return func(r *Router) {
		for _, rt := range routes {
			if rt.Match != nil && rt.Handler != nil {
				r.routes = append(r.routes, rt)
			}
		}
	}
}

// WithFallback sets the handler for requests no route matches.
func WithFallback(h Handler) Option {
	return func(r *Router) {
		if h != nil {
			r.fallback = h
		}
	}
}

// WithLogger sets the logger used for request records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a router with only the given routes and the text echo fallback.
func New(opts ...Option) *Router {
	r := &Router{
		fallback: HandlerFunc(EchoText),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns the standard router: preflight first, then the routes given
// through WithRoutes, then /health and /api, then the text echo fallback.
func Default(opts ...Option) *Router {
	r := New(opts...)
	routes := make([]Route, 0, len(r.routes)+3)
	routes = append(routes, PreflightRoute())
	routes = append(routes, r.routes...)
	routes = append(routes, HealthRoute(), APIRoute())
	r.routes = routes
	return r
}

// Routes returns the route names in dispatch order.
func (r *Router) Routes() []string {
	names := make([]string, len(r.routes))
	for i, rt := range r.routes {
		names[i] = rt.Name
	}
	return names
}

// Route logs req and returns the response of the first matching route.
func (r *Router) Route(ctx context.Context, req *request.Request) (*response.Response, error) {
	r.logRequest(ctx, req)

	h := r.fallback
	for _, rt := range r.routes {
		if rt.Match(req) {
			h = rt.Handler
			break
		}
	}

	resp, err := h.Serve(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNoResponse, req.Method(), req.Path())
	}
	return resp, nil
}

func (r *Router) logRequest(ctx context.Context, req *request.Request) {
	attrs := []slog.Attr{
		logger.Method(req.Method().String()),
		logger.Path(req.Path()),
		slog.Any("headers", req.Headers()),
	}
	if q := req.Query(); len(q) > 0 {
		attrs = append(attrs, slog.Any("query", q))
	}
	body := req.Body()
	if v := body.Value(); v != nil {
		attrs = append(attrs, slog.Any("body", v))
	}
	if body.Kind() == request.KindMalformed {
		r.logger.LogAttrs(ctx, slog.LevelError, "invalid JSON format in request body", logger.Error(body.Err()))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
}
