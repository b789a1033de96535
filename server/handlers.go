package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/authgate/account"
	"github.com/kbukum/authgate/authctx"
	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/version"
)

type registerRequest struct {
	Key    string `json:"key" binding:"required,email"`
	Secret string `json:"secret" binding:"required,min=8"`
}

type loginRequest struct {
	Key    string `json:"key" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type changePasswordRequest struct {
	Current string `json:"current" binding:"required"`
	Next    string `json:"next" binding:"required,min=8"`
}

type handlers struct {
	accounts *account.Service
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	p, err := h.accounts.Register(c.Request.Context(), req.Key, req.Secret, nil)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, p)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	pair, err := h.accounts.Login(c.Request.Context(), req.Key, req.Secret)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, pair)
}

func (h *handlers) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	pair, err := h.accounts.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, pair)
}

func (h *handlers) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	auth := authctx.MustGet(c.Request.Context())
	if err := h.accounts.ChangePassword(c.Request.Context(), auth.Subject, req.Current, req.Next); err != nil {
		RespondWithError(c, err)
		return
	}
	RespondNoContent(c)
}

// me returns the caller's authentication context: the resolved identity and
// the request metadata captured at context-install time.
func (h *handlers) me(c *gin.Context) {
	auth := authctx.MustGet(c.Request.Context())
	RespondOK(c, gin.H{
		"principal_id": auth.PrincipalID,
		"subject":      auth.Subject,
		"authorities":  auth.Authorities,
		"remote_addr":  auth.RemoteAddr,
		"request_id":   auth.RequestID,
	})
}

func (h *handlers) listPrincipals(c *gin.Context) {
	principals, err := h.accounts.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, principals)
}

func (h *handlers) deactivatePrincipal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput("id must be a UUID"))
		return
	}
	if err := h.accounts.Deactivate(c.Request.Context(), id); err != nil {
		RespondWithError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *handlers) health(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok", "version": version.Short()})
}
