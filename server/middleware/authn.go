package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/authctx"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/principal"
	"github.com/kbukum/authgate/token"
)

// bearerScheme is the fixed credential scheme in the Authorization header.
const bearerScheme = "Bearer"

// DefaultLookupTimeout bounds the directory lookup, the only suspension
// point on the authentication path.
const DefaultLookupTimeout = 3 * time.Second

// AuthnConfig configures the authentication pipeline middleware.
type AuthnConfig struct {
	// Codec verifies extracted tokens.
	Codec *token.Codec

	// Directory resolves token subjects to principals.
	Directory principal.Directory

	// LookupTimeout bounds the directory lookup (default: 3s).
	LookupTimeout time.Duration

	// Logger receives low-severity rejection diagnostics.
	Logger *logger.Logger
}

// Authenticate returns the per-request authentication pipeline:
// bearer extraction, token verification, principal resolution, and context
// installation. Every failure along the way is absorbed — the request
// proceeds with no context installed and the reason is logged at debug
// level; the authorization guard downstream decides whether an
// unauthenticated request is acceptable for the target operation.
func Authenticate(cfg AuthnConfig) gin.HandlerFunc {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	log := cfg.Logger.WithComponent("authn")

	return func(c *gin.Context) {
		raw, ok := extractBearer(c.GetHeader("Authorization"))
		if !ok {
			// No token is not an error; the request is simply unauthenticated.
			c.Next()
			return
		}

		claims, err := cfg.Codec.ParseAndVerify(raw)
		if err != nil {
			log.Debug("token rejected", logger.Fields(
				logger.FieldReason, token.FailureClass(err),
			))
			c.Next()
			return
		}

		lookupCtx, cancel := context.WithTimeout(c.Request.Context(), cfg.LookupTimeout)
		p, err := cfg.Directory.FindByKey(lookupCtx, claims.Subject)
		cancel()
		if err != nil {
			reason := "lookup failed"
			switch {
			case errors.Is(err, principal.ErrNotFound):
				reason = "principal not found"
			case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
				reason = "lookup cancelled"
			}
			log.Debug("token rejected", logger.Fields(
				logger.FieldReason, reason,
				logger.FieldSubject, claims.Subject,
			))
			c.Next()
			return
		}

		if !p.Active {
			// A deactivated account is not resurrectable by a still-valid token.
			log.Debug("token rejected", logger.Fields(
				logger.FieldReason, "principal inactive",
				logger.FieldPrincipalID, p.ID.String(),
			))
			c.Next()
			return
		}

		auth := &authctx.Auth{
			PrincipalID: p.ID,
			Subject:     p.Key,
			Authorities: append([]string(nil), p.Roles...),
			RemoteAddr:  c.ClientIP(),
			RequestID:   c.GetHeader(RequestIDHeader),
		}
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), auth))
		c.Next()
	}
}

// extractBearer locates a single bearer credential in the header value.
// Absence or a different scheme yields no token.
func extractBearer(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerScheme {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", false
	}
	return tok, true
}
