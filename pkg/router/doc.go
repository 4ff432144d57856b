// Package router maps decoded requests to responses.
//
// A Router is an ordered chain of Route values, each pairing a Matcher with a
// Handler. The first matching route answers; requests that match nothing go
// to the fallback handler. Handlers are plain functions of the request and
// carry no state between calls.
//
// Default assembles the standard chain:
//
//  1. OPTIONS on any path: empty 200 (CORS preflight).
//  2. Extra routes supplied with WithRoutes, for example canned routes loaded
//     from a YAML file with LoadRoutes.
//  3. /health: health JSON naming the worker that served it.
//  4. Paths starting with /api: JSON echo of method, path, query and body.
//  5. Anything else: "Request received: <METHOD> <PATH>\n" as plain text.
//
// Route logs one record per request with method, path, headers, query and
// body. Logging goes through the injected slog.Logger and never fails the
// request.
package router
