// Package clientip resolves the address of the client behind a request.
//
// Resolve checks, in order, CF-Connecting-IP, X-Forwarded-For (first valid
// entry), X-Real-IP and finally the peer address of the connection. Every
// candidate is validated with net.ParseIP and returned in normalized form.
//
// The resolved address is used as the rate-limit key and is attached to log
// records through LoggerExtractor.
package clientip
