package remote

import (
	"fmt"
	"strings"
)

const (
	ProtocolJSONRPC    = "jsonrpc"
	ProtocolJSONRPCSSL = "jsonrpc+ssl"

	DefaultPort     = 443
	DefaultProtocol = ProtocolJSONRPCSSL
)

type Credentials struct {
	Host     string
	Port     int
	Protocol string
	Database string
	Login    string
	Password string
}

// Complete reports whether every field needed for a login is filled in.
// Port and protocol fall back to defaults and are not required.
func (c Credentials) Complete() bool {
	for _, v := range []string{c.Host, c.Database, c.Login, c.Password} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// BaseURL returns scheme://host:port for the credentials.
// Host may be given with a scheme or trailing path; both are dropped.
func (c Credentials) BaseURL() (string, error) {
	host := NormalizeHost(c.Host)
	if host == "" {
		return "", fmt.Errorf("remote host is required")
	}

	scheme := "https"
	switch c.Protocol {
	case "", ProtocolJSONRPCSSL:
	case ProtocolJSONRPC:
		scheme = "http"
	default:
		return "", fmt.Errorf("unsupported protocol %q", c.Protocol)
	}

	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}

	return fmt.Sprintf("%s://%s:%d", scheme, host, port), nil
}

// NormalizeHost strips scheme, path and surrounding whitespace from a host field.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}
