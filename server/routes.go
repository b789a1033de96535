package server

import (
	"github.com/kbukum/authgate/authz"
	"github.com/kbukum/authgate/principal"
	"github.com/kbukum/authgate/server/middleware"
)

// registerRoutes declares the HTTP surface. Each route carries its access
// policy explicitly: public, any authenticated principal, or a specific
// authority.
func (s *Server) registerRoutes(deps Deps) {
	h := &handlers{accounts: deps.Accounts}
	eval := deps.Evaluator

	s.engine.GET("/health", h.health)

	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", middleware.Require(eval, authz.Public()), h.register)
	auth.POST("/login", middleware.Require(eval, authz.Public()), h.login)
	auth.POST("/refresh", middleware.Require(eval, authz.Public()), h.refresh)
	auth.POST("/password", middleware.Require(eval, authz.Authenticated()), h.changePassword)

	api.GET("/me", middleware.Require(eval, authz.Authenticated()), h.me)

	admin := api.Group("/admin", middleware.Require(eval, authz.Authority(principal.RoleAdmin)))
	admin.GET("/principals", h.listPrincipals)
	admin.POST("/principals/:id/deactivate", h.deactivatePrincipal)
}
