// Command authgate runs the token authentication and authorization service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/authgate/account"
	"github.com/kbukum/authgate/authz"
	"github.com/kbukum/authgate/config"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/password"
	"github.com/kbukum/authgate/principal"
	"github.com/kbukum/authgate/principal/gormstore"
	"github.com/kbukum/authgate/server"
	"github.com/kbukum/authgate/token"
	"github.com/kbukum/authgate/version"
)

const serviceName = "authgate"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "authgate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := config.Load(serviceName, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(&cfg.Logging, serviceName)
	logger.SetGlobalLogger(log)
	log.Info("Configuration loaded", map[string]interface{}{
		"summary": cfg.Describe(),
		"version": version.Short(),
	})

	codec, err := token.NewCodec(&cfg.Token)
	if err != nil {
		return err
	}
	hasher := password.NewHasher(cfg.Password)

	var dir principal.Directory
	switch cfg.Store.Driver {
	case "memory":
		dir = principal.NewMemoryDirectory()
	default:
		store, err := gormstore.Open(cfg.Store.DSN, log)
		if err != nil {
			return err
		}
		dir = store
	}

	accounts, err := account.NewService(dir, hasher, codec, log)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, server.Deps{
		Accounts:  accounts,
		Codec:     codec,
		Directory: dir,
		Evaluator: authz.NewEvaluator(nil),
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return srv.Stop(context.Background())
}
