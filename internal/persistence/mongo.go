package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// Mongo wraps the document store client and the application database.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects and pings the document store. Every operation is bounded by cfg.OpTimeout.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.OpTimeout).
		SetConnectTimeout(cfg.OpTimeout).
		SetTimeout(cfg.OpTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return &Mongo{Client: client, Database: client.Database(cfg.Database)}, nil
}

// PrepareIndexes ensures the unique indexes when enabled. When disabled it
// warns, since user email and category name uniqueness then depend on indexes
// created out of band.
func (m *Mongo) PrepareIndexes(ctx context.Context, enabled bool, logger *zap.Logger) error {
	if !enabled {
		logger.Warn("index creation disabled; unique email and category name need existing indexes",
			zap.Strings("indexes", []string{"users.email_unique", "categories.name_unique"}))
		return nil
	}
	return m.EnsureIndexes(ctx, logger)
}

// EnsureIndexes creates the unique indexes the domain relies on.
func (m *Mongo) EnsureIndexes(ctx context.Context, logger *zap.Logger) error {
	indexes := map[string]mongo.IndexModel{
		"users": {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		"categories": {
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("name_unique"),
		},
	}
	for collection, model := range indexes {
		name, err := m.Database.Collection(collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", collection, err)
		}
		logger.Info("index ensured", zap.String("collection", collection), zap.String("index", name))
	}
	return nil
}

// Ping verifies connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("mongo client not configured")
	}
	return m.Client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}
