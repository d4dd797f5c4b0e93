package cors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Policy decides which Access-Control headers to attach to a response.
//
// The fallback for an unrecognized origin is the FIRST configured entry, not
// a rejection. Most CORS setups reject unknown origins outright; this echo is
// long-standing observable behavior for existing deploys and is kept as-is.
// It is not a security boundary.
type Policy struct {
	allowed []string
}

// Headers is the computed header set for one request.
type Headers struct {
	AllowOrigin  string
	AllowHeaders string
	AllowMethods string
}

// NewPolicy builds a policy from the configured allow-list.
// A nil or empty list means any origin is permitted.
func NewPolicy(allowedOrigins []string) Policy {
	return Policy{allowed: allowedOrigins}
}

// HeadersFor resolves the CORS headers for a request origin.
func (p Policy) HeadersFor(requestOrigin string) Headers {
	h := Headers{
		AllowOrigin:  "*",
		AllowHeaders: "Content-Type",
		AllowMethods: "POST, OPTIONS",
	}
	if len(p.allowed) == 0 || p.containsWildcard() || requestOrigin == "" {
		return h
	}
	for _, o := range p.allowed {
		if o == requestOrigin {
			h.AllowOrigin = requestOrigin
			return h
		}
	}
	h.AllowOrigin = p.allowed[0]
	return h
}

func (p Policy) containsWildcard() bool {
	for _, o := range p.allowed {
		if o == "*" {
			return true
		}
	}
	return false
}

// Middleware attaches CORS headers to every response and terminates
// pre-flight OPTIONS requests with 204 before any handler runs.
func Middleware(p Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := p.HeadersFor(c.GetHeader("Origin"))
		c.Header("Access-Control-Allow-Origin", h.AllowOrigin)
		c.Header("Access-Control-Allow-Headers", h.AllowHeaders)
		c.Header("Access-Control-Allow-Methods", h.AllowMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
