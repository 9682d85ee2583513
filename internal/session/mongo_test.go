package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// unreachableMongoStore points at a closed port; the driver connects lazily,
// so every operation fails on server selection.
func unreachableMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return &MongoStore{
		logger: zap.NewNop(),
		col:    client.Database("helpdesk_test").Collection(sessionsCollection),
		ttl:    24 * time.Hour,
		now:    time.Now,
	}
}

func TestMongoStoreEmptyToken(t *testing.T) {
	store := &MongoStore{logger: zap.NewNop(), ttl: 24 * time.Hour, now: time.Now}

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, store.Destroy(context.Background(), ""))
	assert.Equal(t, 24*time.Hour, store.TTL())
}

func TestMongoStoreSurfacesStoreFailures(t *testing.T) {
	store := unreachableMongoStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "u1", nil)
	require.Error(t, err)

	_, err = store.Get(ctx, "some-token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	assert.Error(t, store.Destroy(ctx, "some-token"))
}
