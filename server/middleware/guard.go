package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/authctx"
	"github.com/kbukum/authgate/authz"
	apperrors "github.com/kbukum/authgate/errors"
)

// Require returns a Gin middleware that gates the route on the given
// requirement. It is the single point where a missing or insufficient
// authentication context becomes a user-visible 401 or 403.
func Require(eval *authz.Evaluator, req authz.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := authctx.Get(c.Request.Context())
		if err := eval.Authorize(auth, req); err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok {
				c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Next()
	}
}
