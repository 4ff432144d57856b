// Package request models a single decoded HTTP/1.1 request as served by the
// dispatcher.
//
// A Request is built once per accepted connection and is read-only afterwards.
// It carries the method, the raw path (query string stripped), the parsed query
// parameters, the request headers and a decoded Body.
//
// # Body decoding
//
// Decode turns raw body bytes plus the Content-Type header into a Body value:
//
//   - zero content length yields an absent body;
//   - "application/json" is parsed strictly; a parse failure yields a Malformed
//     body instead of an error so the request can still be answered;
//   - "application/x-www-form-urlencoded" is parsed with the same rules as the
//     query string (repeated keys preserved in order);
//   - anything else is returned as raw text.
//
// A charset parameter naming a non UTF-8 encoding is transcoded with
// golang.org/x/text before decoding. Bytes that are not valid text in the
// declared encoding produce ErrInvalidEncoding.
//
// # Wire parsing
//
// ReadHead parses the request line and headers from a buffered connection and
// validates the method. The body stays unread until Head.Decode is called, so
// callers can answer HEAD requests without touching the body.
package request
