package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Response is a status, headers and a body to write verbatim.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// New returns a response with the given status, content type and body.
func New(status int, contentType string, body []byte) *Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{Status: status, Header: h, Body: body}
}

// JSON encodes v without HTML escaping, so non-ASCII and markup characters are
// written as-is.
func JSON(status int, v any) (*Response, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	return New(status, ContentTypeJSON, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Text returns a plain-text response.
func Text(status int, body string) *Response {
	return New(status, ContentTypeText, []byte(body))
}

// Empty returns a response without body. It still declares a text content type.
func Empty(status int) *Response {
	return New(status, ContentTypeText, nil)
}

// Error returns the plain-text body used for handler failures.
func Error(status int, err error) *Response {
	return Text(status, fmt.Sprintf("%s: %v\n", http.StatusText(status), err))
}

// ContentType returns the Content-Type header, defaulting to plain text.
func (r *Response) ContentType() string {
	if r.Header != nil {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			return ct
		}
	}
	return ContentTypeText
}
