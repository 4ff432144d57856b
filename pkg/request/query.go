package request

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Values maps a parameter name to its values in the order they appeared.
type Values map[string][]string

// Get returns the first value for key or an empty string.
func (v Values) Get(key string) string {
	if vs := v[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Has reports whether key is present.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Clone returns a deep copy. The copy of a nil Values is an empty, non-nil map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// SplitTarget splits a request target on the first '?' into the raw path and
// the raw query string.
func SplitTarget(target string) (path, rawQuery string) {
	path, rawQuery, _ = strings.Cut(target, "?")
	return path, rawQuery
}

// ParseQuery decodes a "key=value&key=value" string. Repeated keys are grouped
// in order. Pairs without '=' and pairs with an empty value are skipped, '+'
// decodes to a space, and invalid percent escapes are kept verbatim.
// The result is never nil.
func ParseQuery(raw string) Values {
	out := make(Values)
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			continue
		}
		key = unescape(key)
		out[key] = append(out[key], unescape(value))
	}
	return out
}

func unescape(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return replaceInvalid(decoded)
	}

	// Lenient path: decode the escapes that are well-formed, keep the rest.
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return replaceInvalid(string(buf))
}

// replaceInvalid substitutes U+FFFD for every byte that is not part of a
// valid UTF-8 sequence.
func replaceInvalid(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*utf8.UTFMax)
	for _, r := range s {
		b.WriteRune(r)
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
