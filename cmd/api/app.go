package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

// application holds the connections and services shared by every command.
type application struct {
	cfg        *config.Config
	logger     *zap.Logger
	mongo      *persistence.Mongo
	redis      *persistence.Redis
	postgres   *persistence.Postgres
	dispatcher events.Dispatcher
	audit      *service.AuditService
	auditor    *worker.AuditWorker
	users      *service.UserService
	userRepo   repository.UserRepository
}

func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	app := &application{cfg: cfg, logger: logger}

	app.mongo, err = persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		app.close()
		return nil, err
	}
	if err := app.mongo.PrepareIndexes(ctx, cfg.Mongo.EnsureIndex, logger); err != nil {
		app.close()
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	app.redis, err = persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		app.close()
		return nil, err
	}

	app.postgres, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	var auditRepo repository.AuditRepository
	if app.postgres.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, app.postgres.PoolHandle(), logger); err != nil {
				app.close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		auditRepo = repository.NewAuditRepository(app.postgres.PoolHandle())
	}

	app.dispatcher = events.NewInMemoryDispatcher(logger)
	app.audit = service.NewAuditService(app.dispatcher, logger, auditRepo)
	app.auditor = worker.StartAuditWorker(ctx, logger, app.dispatcher, app.audit.Handle)

	app.userRepo = repository.NewUserRepository(app.mongo.Database)
	app.users = service.NewUserService(cfg.Auth, app.userRepo, app.audit)
	return app, nil
}

// close drains pending audit events before the stores go away.
func (a *application) close() {
	if a.auditor != nil {
		a.auditor.Stop()
	}
	a.postgres.Close()
	a.redis.Close()
	if a.mongo != nil {
		a.mongo.Close(context.Background())
	}
	_ = a.logger.Sync()
}
