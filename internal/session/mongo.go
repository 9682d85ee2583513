package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const sessionsCollection = "sessions"

// MongoStore keeps sessions in a collection with a TTL index on expiresAt.
type MongoStore struct {
	logger *zap.Logger
	col    *mongo.Collection
	ttl    time.Duration
	now    func() time.Time
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates the store and ensures the expiry index exists.
func NewMongoStore(ctx context.Context, logger *zap.Logger, db *mongo.Database, ttl time.Duration) (*MongoStore, error) {
	col := db.Collection(sessionsCollection)
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_ttl"),
	})
	if err != nil {
		return nil, fmt.Errorf("create session ttl index: %w", err)
	}
	return &MongoStore{
		logger: logger.Named("session.store.mongo"),
		col:    col,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *MongoStore) Create(ctx context.Context, userID string, data map[string]any) (*Session, error) {
	sess, err := newSession(userID, data, s.ttl, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	if _, err := s.col.InsertOne(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.logger.Debug("session created", zap.String("user_id", userID))
	return sess, nil
}

// Get filters on expiresAt too: the TTL monitor only sweeps about once a minute.
func (s *MongoStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	filter := bson.M{"_id": token, "expiresAt": bson.M{"$gt": s.now().UTC()}}

	var sess Session
	err := s.col.FindOne(ctx, filter).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sess, nil
}

func (s *MongoStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (s *MongoStore) TTL() time.Duration {
	return s.ttl
}
