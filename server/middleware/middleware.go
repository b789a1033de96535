// Package middleware provides the request-interception pipeline: cross-origin
// policy, authentication, authority guards, and request hygiene (recovery,
// request IDs, logging).
//
// Ordering is load-bearing. For every request the stack runs CORS first, then
// hygiene, then authentication, then per-route guards; the authentication
// middleware runs exactly once per request and installs the request-scoped
// context before any business handler executes.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware wraps an http.Handler with additional behavior.
// This is the standard Go middleware signature.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// GinWrap adapts a standard Middleware for use in a Gin middleware chain.
// When the wrapped middleware short-circuits (writes its response without
// invoking next), the Gin chain is aborted so no downstream middleware or
// handler runs.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			// Propagate request modifications (e.g. context) back to Gin.
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
