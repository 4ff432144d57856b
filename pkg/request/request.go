package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Request is a decoded request. It is built once per connection and must be
// treated as read-only.
type Request struct {
	method     Method
	target     string
	path       string
	query      Values
	header     http.Header
	body       Body
	remoteAddr string
}

// New builds a Request from already decoded parts. It is mostly useful for
// tests and for callers that do not read from a connection.
func New(method Method, target string, header http.Header, body Body) (*Request, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}
	if target == "" {
		return nil, ErrInvalidTarget
	}
	if header == nil {
		header = http.Header{}
	}
	path, rawQuery := SplitTarget(target)
	return &Request{
		method: method,
		target: target,
		path:   path,
		query:  ParseQuery(rawQuery),
		header: header.Clone(),
		body:   body,
	}, nil
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// Target returns the request target exactly as received.
func (r *Request) Target() string { return r.target }

// Path returns the raw path component without the query string.
func (r *Request) Path() string { return r.path }

// Query returns a copy of the parsed query parameters. Never nil.
func (r *Request) Query() Values { return r.query.Clone() }

// Header returns the value of the named header. Lookup is case-insensitive.
func (r *Request) Header(name string) string { return r.header.Get(name) }

// Headers returns the headers flattened to one value per name, multiple values
// joined with ", ".
func (r *Request) Headers() map[string]string {
	out := make(map[string]string, len(r.header))
	for k, vs := range r.header {
		out[k] = strings.Join(vs, ", ")
	}
	return out
}

// Body returns the decoded body.
func (r *Request) Body() Body { return r.body }

// RemoteAddr returns the peer address of the connection, if known.
func (r *Request) RemoteAddr() string { return r.remoteAddr }

// Head is a parsed request line plus headers whose body has not been read yet.
type Head struct {
	Method        Method
	Target        string
	Header        http.Header
	ContentLength int64
	RemoteAddr    string

	raw *http.Request
}

// ReadHead reads the request line and headers from br.
//
// It returns io.EOF unchanged when the peer closed the connection before
// sending anything, ErrMalformedRequest for unparsable input and
// ErrUnsupportedMethod (with the Head still populated) for unknown methods.
func ReadHead(br *bufio.Reader) (*Head, error) {
	hr, err := http.ReadRequest(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, errors.Join(ErrMalformedRequest, err)
	}

	h := &Head{
		Method:        Method(hr.Method),
		Target:        hr.RequestURI,
		Header:        hr.Header,
		ContentLength: hr.ContentLength,
		raw:           hr,
	}
	if _, err := ParseMethod(hr.Method); err != nil {
		return h, err
	}
	return h, nil
}

// Decode reads the body and returns the decoded Request. maxBody limits the
// body size; zero or a negative value disables the limit.
func (h *Head) Decode(maxBody int64) (*Request, error) {
	raw, err := h.readBody(maxBody)
	if err != nil {
		return nil, err
	}

	length := h.ContentLength
	if length < 0 {
		length = int64(len(raw))
	}

	body, err := Decode(raw, h.Header.Get("Content-Type"), length)
	if err != nil {
		return nil, err
	}

	path, rawQuery := SplitTarget(h.Target)
	return &Request{
		method:     h.Method,
		target:     h.Target,
		path:       path,
		query:      ParseQuery(rawQuery),
		header:     h.Header,
		body:       body,
		remoteAddr: h.RemoteAddr,
	}, nil
}

func (h *Head) readBody(maxBody int64) ([]byte, error) {
	if h.raw == nil || h.raw.Body == nil || h.ContentLength == 0 {
		return nil, nil
	}
	defer h.raw.Body.Close()

	if maxBody > 0 && h.ContentLength > maxBody {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrBodyTooLarge, h.ContentLength, maxBody)
	}

	var src io.Reader = h.raw.Body
	if maxBody > 0 {
		src = io.LimitReader(src, maxBody+1)
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Join(ErrReadBody, err)
	}
	if maxBody > 0 && int64(len(raw)) > maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, maxBody)
	}
	return raw, nil
}
