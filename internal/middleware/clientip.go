package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ClientIP extracts the client address from the request. Proxy headers are
// only honoured when trustProxy is set, since clients can forge them.
func ClientIP(ctx huma.Context, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For may contain multiple IPs; the first is the original client
		if xff := ctx.Header("X-Forwarded-For"); xff != "" {
			if idx := strings.Index(xff, ","); idx != -1 {
				return strings.TrimSpace(xff[:idx])
			}

			return strings.TrimSpace(xff)
		}

		if xri := ctx.Header("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
