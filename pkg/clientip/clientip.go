package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Resolve returns the client IP for a request with the given headers that
// arrived from remoteAddr. It returns "" when no candidate is a valid IP.
func Resolve(h http.Header, remoteAddr string) string {
	if ip := parseIP(h.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if forwarded := h.Get("X-Forwarded-For"); forwarded != "" {
		for candidate := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(h.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return parseIP(remoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
