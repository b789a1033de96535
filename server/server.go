// Package server hosts the HTTP surface: a Gin engine with the ordered
// interception stack (cross-origin policy, request hygiene, authentication
// pipeline) and the credential and admin routes.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/authgate/account"
	"github.com/kbukum/authgate/authz"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/principal"
	"github.com/kbukum/authgate/server/middleware"
	"github.com/kbukum/authgate/token"
)

// Server is an HTTP server backed by Gin.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
}

// Deps are the wired collaborators the server routes over.
type Deps struct {
	Accounts  *account.Service
	Codec     *token.Codec
	Directory principal.Directory
	Evaluator *authz.Evaluator
}

// New creates a new Server with the full middleware stack applied and all
// routes registered. The stack order is fixed: recovery, request-ID,
// cross-origin policy, request logging, authentication. The cross-origin
// check always runs before the authentication pipeline, and preflight
// requests never reach it.
func New(cfg Config, deps Deps, log *logger.Logger) *Server {
	cfg.ApplyDefaults()

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.GinCORS(&cfg.CORS))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Authenticate(middleware.AuthnConfig{
		Codec:         deps.Codec,
		Directory:     deps.Directory,
		LookupTimeout: cfg.LookupTimeout,
		Logger:        log,
	}))

	s := &Server{
		engine: engine,
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.registerRoutes(deps)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(engine, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// GinEngine returns the underlying Gin engine.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}
