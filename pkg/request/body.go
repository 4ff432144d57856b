package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Kind tells which variant a Body holds.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindJSON
	KindForm
	KindRaw
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindJSON:
		return "json"
	case KindForm:
		return "form"
	case KindRaw:
		return "raw"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Body is the decoded request body. The zero value is an absent body.
type Body struct {
	kind Kind
	json any
	form Values
	raw  string
	err  error
}

// AbsentBody returns a body for requests without content.
func AbsentBody() Body { return Body{kind: KindAbsent} }

// JSONBody wraps a decoded JSON value.
func JSONBody(v any) Body { return Body{kind: KindJSON, json: v} }

// FormBody wraps decoded form fields.
func FormBody(v Values) Body {
	if v == nil {
		v = Values{}
	}
	return Body{kind: KindForm, form: v}
}

// RawBody wraps body text that has no structured decoding.
func RawBody(s string) Body { return Body{kind: KindRaw, raw: s} }

// MalformedBody records a JSON payload that failed to parse.
func MalformedBody(err error) Body { return Body{kind: KindMalformed, err: err} }

func (b Body) Kind() Kind { return b.kind }

// Err returns the parse error of a malformed body, nil otherwise.
func (b Body) Err() error { return b.err }

// Value returns the decoded payload as a plain Go value suitable for JSON
// encoding: the JSON value, the form map, the raw string, or nil for absent
// and malformed bodies.
func (b Body) Value() any {
	switch b.kind {
	case KindJSON:
		return b.json
	case KindForm:
		return map[string][]string(b.form.Clone())
	case KindRaw:
		return b.raw
	default:
		return nil
	}
}

// Decode turns raw body bytes into a Body according to the content type.
//
// A malformed JSON payload is not an error: it yields a Malformed body.
// An error is returned only when the bytes are not valid text in the declared
// charset (ErrInvalidEncoding).
func Decode(raw []byte, contentType string, contentLength int64) (Body, error) {
	if contentLength <= 0 || len(raw) == 0 {
		return AbsentBody(), nil
	}

	text, err := toUTF8(raw, contentType)
	if err != nil {
		return Body{}, err
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, contentTypeJSON):
		v, err := parseJSON(text)
		if err != nil {
			return MalformedBody(err), nil
		}
		return JSONBody(v), nil
	case strings.Contains(ct, contentTypeForm):
		return FormBody(ParseQuery(string(text))), nil
	default:
		return RawBody(string(text)), nil
	}
}

// parseJSON decodes exactly one JSON value. Numbers keep their literal form.
func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	return v, nil
}

// toUTF8 returns raw as UTF-8 text, transcoding when the content type names
// another charset.
func toUTF8(raw []byte, contentType string) ([]byte, error) {
	enc := lookupCharset(contentType)
	if enc != nil {
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		raw = decoded
	}
	if !utf8.Valid(raw) {
		return nil, ErrInvalidEncoding
	}
	return raw, nil
}
