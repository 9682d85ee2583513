package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type eventLog struct {
	mu   sync.Mutex
	list []events.Event
}

func (l *eventLog) handle(_ context.Context, e events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.list = append(l.list, e)
	return nil
}

func (l *eventLog) last() events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.list) == 0 {
		return events.Event{}
	}
	return l.list[len(l.list)-1]
}

func newAuditedUserService(t *testing.T) (*UserService, *repotest.Users, *eventLog) {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	log := &eventLog{}
	for _, eventType := range events.AuditTypes {
		dispatcher.Subscribe(eventType, log.handle)
	}
	users := repotest.NewUsers()
	audit := NewAuditService(dispatcher, zap.NewNop(), nil)
	return NewUserService(config.AuthConfig{BcryptCost: 10}, users, audit), users, log
}

func mustCreateUser(t *testing.T, svc *UserService, email, password string, role domain.Role) *domain.User {
	t.Helper()
	user, err := svc.Create(context.Background(), "", UserCreateInput{
		Username: "user-" + email,
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.ToDomainError(err).Code, err.Error())
}
