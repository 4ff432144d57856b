package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/httpdispatch/pkg/request"
	"github.com/dmitrymomot/httpdispatch/pkg/response"
	"github.com/dmitrymomot/httpdispatch/pkg/workerpool"
)

const (
	HealthPath = "/health"
	APIPrefix  = "/api"
)

// HealthPayload is the body of the health route. Timestamp carries the name of
// the worker that served the request.
type HealthPayload struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// EchoPayload is the body of the /api echo route.
type EchoPayload struct {
	Status      string         `json:"status"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	QueryParams request.Values `json:"query_params"`
	Body        any            `json:"body"`
}

// PreflightRoute answers OPTIONS on any path with an empty 200.
func PreflightRoute() Route {
	return Route{
		Name:    "preflight",
		Match:   MethodIs(request.MethodOptions),
		Handler: HandlerFunc(Preflight),
	}
}

// HealthRoute serves /health.
func HealthRoute() Route {
	return Route{
		Name:    "health",
		Match:   PathEquals(HealthPath),
		Handler: HandlerFunc(Health),
	}
}

// APIRoute serves every path under /api.
func APIRoute() Route {
	return Route{
		Name:    "api",
		Match:   PathPrefix(APIPrefix),
		Handler: HandlerFunc(EchoJSON),
	}
}

// Preflight returns an empty 200; the writer adds the CORS headers.
func Preflight(context.Context, *request.Request) (*response.Response, error) {
	return response.Empty(http.StatusOK), nil
}

// Health reports liveness and the serving worker.
func Health(ctx context.Context, _ *request.Request) (*response.Response, error) {
	return response.JSON(http.StatusOK, HealthPayload{
		Status:    "ok",
		Message:   "Server is running",
		Timestamp: workerpool.WorkerName(ctx),
	})
}

// EchoJSON echoes the request back as JSON.
func EchoJSON(_ context.Context, req *request.Request) (*response.Response, error) {
	return response.JSON(http.StatusOK, EchoPayload{
		Status:      "success",
		Method:      req.Method().String(),
		Path:        req.Path(),
		QueryParams: req.Query(),
		Body:        req.Body().Value(),
	})
}

// EchoText acknowledges the request in plain text.
func EchoText(_ context.Context, req *request.Request) (*response.Response, error) {
	return response.Text(http.StatusOK, fmt.Sprintf("Request received: %s %s\n", req.Method(), req.Path())), nil
}
