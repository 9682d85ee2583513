package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// NewStore picks the session backend named in cfg.Backend.
func NewStore(ctx context.Context, logger *zap.Logger, cfg config.SessionConfig, rdb *persistence.Redis, mdb *persistence.Mongo) (Store, error) {
	switch cfg.Backend {
	case "redis":
		if rdb == nil || rdb.Client == nil {
			return nil, fmt.Errorf("redis session backend requires a redis client")
		}
		return NewRedisStore(logger, rdb.Client, cfg.KeyPrefix, cfg.TTL), nil
	case "mongo":
		if mdb == nil || mdb.Database == nil {
			return nil, fmt.Errorf("mongo session backend requires a database")
		}
		return NewMongoStore(ctx, logger, mdb.Database, cfg.TTL)
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Backend)
	}
}
