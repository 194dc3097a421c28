package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ReadUserIP returns the client IP, preferring the headers set by the reverse proxy.
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// the first entry is the original client
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			ipAddr = strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	ip := net.ParseIP(ipAddr)
	if ip == nil {
		return "", fmt.Errorf("ip addr [%s] is invalid", ipAddr)
	}
	return ip.String(), nil
}
