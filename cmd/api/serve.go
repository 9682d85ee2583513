package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/ratelimit"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/session"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	cfg, logger := app.cfg, app.logger

	sessions, err := session.NewStore(ctx, logger, cfg.Session, app.redis, app.mongo)
	if err != nil {
		return err
	}
	signer := auth.NewCookieSigner(cfg.Session.Secret)

	db := app.mongo.Database
	authService := service.NewAuthService(app.users, sessions, signer, app.audit)
	ticketService := service.NewTicketService(repository.NewTicketRepository(db))
	inventoryService := service.NewInventoryService(service.InventoryDependencies{
		CategoryRepo: repository.NewCategoryRepository(db),
		SupplierRepo: repository.NewSupplierRepository(db),
		ItemRepo:     repository.NewItemRepository(db),
	})

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	limiter := ratelimit.New(app.redis.Client, cfg.RateLimit.KeyPrefix, cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	authMiddleware := auth.NewAuthMiddleware(sessions, signer, app.userRepo, cfg.Session.CookieName, logger)

	dependencies := map[string]handlers.Pinger{
		"mongodb": app.mongo,
		"redis":   app.redis,
	}
	if app.postgres.Enabled() {
		dependencies["postgres"] = app.postgres
	}

	server := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ProxyHeader: cfg.App.ProxyHeader,
		// Params and bodies outlive the request in the audit queue.
		Immutable:    true,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(server, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(server, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth: handlers.NewAuthHandler(authService, handlers.CookieSettings{
			Name:   cfg.Session.CookieName,
			Secure: cfg.App.IsProduction(),
		}, metrics),
		Users:            handlers.NewUsersHandler(app.users, app.audit),
		Tickets:          handlers.NewTicketsHandler(ticketService),
		Inventory:        handlers.NewInventoryHandler(inventoryService),
		AuthMiddleware:   authMiddleware,
		LoginLimiter:     httptransport.LoginRateLimit(limiter, metrics),
		Metrics:          metrics,
		ProtectResources: cfg.App.ProtectResources,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		errCh <- server.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	return server.Shutdown()
}
