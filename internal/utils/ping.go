package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

var schemePorts = map[string]string{"http": "80", "https": "443"}

// PingAuthorizer dials the identity provider's host/port with a short
// timeout. Health checks only need reachability, not an HTTP round trip.
func PingAuthorizer(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid identity provider URL: %w", err)
	}

	port := u.Port()
	if port == "" {
		if p, ok := schemePorts[u.Scheme]; ok {
			port = p
		} else {
			port = "80"
		}
	}

	addr := net.JoinHostPort(u.Hostname(), port)
	conn, err := net.DialTimeout("tcp", addr, 1500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("identity provider unreachable at %s: %w", addr, err)
	}
	return conn.Close()
}
