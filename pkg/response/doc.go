// Package response builds HTTP responses and serializes them onto a
// connection.
//
// Response values are produced by the router (or by error paths in the
// server) and consumed exactly once by a Writer. Every response written by a
// Writer carries the CORS header set:
//
//	Access-Control-Allow-Origin: *
//	Access-Control-Allow-Methods: GET, POST, PUT, DELETE, HEAD, PATCH, OPTIONS
//	Access-Control-Allow-Headers: Content-Type, Authorization
//	Access-Control-Max-Age: 86400
//
// plus a Content-Type, Content-Length, Date, Server and Connection: close.
//
// Transport failures while writing (for example a peer that disconnected) are
// logged by the Writer and never propagated to the caller.
package response
