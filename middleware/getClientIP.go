package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP is the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func ClientIP(c *gin.Context) string {
	// The header may contain a comma-separated list of IPs. Use the first one.
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr might be in "ip:port" format; strip the port if present.
	ip := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	if ip == "" {
		return "unknown"
	}
	return ip
}

// RequestHost is the forwarded host when a proxy set one, else the Host header.
func RequestHost(c *gin.Context) string {
	if fh := c.GetHeader("X-Forwarded-Host"); fh != "" {
		first, _, _ := strings.Cut(fh, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.Request.Host
}

// RequestOrigin is scheme://host of the request as the browser saw it.
func RequestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		first, _, _ := strings.Cut(proto, ",")
		scheme = strings.ToLower(strings.TrimSpace(first))
	}
	return scheme + "://" + RequestHost(c)
}
