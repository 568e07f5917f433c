package utils

import (
	"net"
	"net/http"
)

// RealClientIP prefers the X-Forwarded-For header set by the reverse proxy
// and falls back to the connection's remote address.
func RealClientIP(r *http.Request) string {
	if xfwd := r.Header.Get("X-Forwarded-For"); xfwd != "" {
		return xfwd
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
