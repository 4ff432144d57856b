// Package requestid assigns correlation identifiers to requests.
//
// Every connection handled by the dispatcher gets an id: the client supplied
// X-Request-ID is reused when it is a short token of letters, digits, '-' and
// '_', otherwise a new UUIDv4 is generated. The id is stored in the context,
// echoed in the response header and injected into log records through
// LoggerExtractor.
//
// Middleware provides the same behaviour for net/http handlers, such as the
// admin server.
package requestid
