package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

type recordingSink struct {
	mu   sync.Mutex
	seen []events.Event
	fail bool
}

func (s *recordingSink) handle(_ context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, e)
	if s.fail {
		return errors.New("audit_log unavailable")
	}
	return nil
}

func (s *recordingSink) types() []events.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.EventType, 0, len(s.seen))
	for _, e := range s.seen {
		out = append(out, e.Type)
	}
	return out
}

func TestAuditWorkerDeliversPublishedEventsInOrder(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	sink := &recordingSink{}
	w := StartAuditWorker(context.Background(), zap.NewNop(), dispatcher, sink.handle)

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventUserCreated, "admin", "u1", nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventRoleAssigned, "admin", "u1", nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventLogout, "u1", "u1", nil)))

	w.Stop()
	assert.Equal(t, []events.EventType{events.EventUserCreated, events.EventRoleAssigned, events.EventLogout}, sink.types())
}

func TestAuditWorkerSurvivesSinkFailures(t *testing.T) {
	sink := &recordingSink{fail: true}
	w := NewAuditWorker(zap.NewNop(), sink.handle, 4)
	w.Start(context.Background())

	require.NoError(t, w.Enqueue(context.Background(), events.NewEvent(events.EventLogin, "u1", "u1", nil)))
	require.NoError(t, w.Enqueue(context.Background(), events.NewEvent(events.EventLogin, "u2", "u2", nil)))
	w.Stop()

	assert.Len(t, sink.types(), 2)
}

func TestAuditWorkerDropsWhenQueueIsFull(t *testing.T) {
	sink := &recordingSink{}
	w := NewAuditWorker(zap.NewNop(), sink.handle, 1)

	// not started: the first event fills the queue, the second is dropped
	require.NoError(t, w.Enqueue(context.Background(), events.NewEvent(events.EventLogin, "u1", "u1", nil)))
	require.NoError(t, w.Enqueue(context.Background(), events.NewEvent(events.EventLogin, "u2", "u2", nil)))

	w.Start(context.Background())
	w.Stop()
	assert.Len(t, sink.types(), 1)
}

func TestStopIsIdempotent(t *testing.T) {
	w := NewAuditWorker(zap.NewNop(), (&recordingSink{}).handle, 1)
	w.Start(context.Background())
	w.Stop()
	assert.NotPanics(t, w.Stop)
}
