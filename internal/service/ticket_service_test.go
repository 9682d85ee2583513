package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTicketDefaultsAndComment(t *testing.T) {
	svc := NewTicketService(repotest.NewTickets())
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{
		Title:       "Printer broken",
		Description: "Jammed",
		UserID:      "U1",
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Nil(t, ticket.AssignedTo)
	assert.Empty(t, ticket.Comments)

	updated, err := svc.AddComment(ctx, ticket.ID, CommentInput{UserID: "U2", Comment: "Looking into it"})
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "U2", updated.Comments[0].UserID)
	assert.False(t, updated.Comments[0].Timestamp.IsZero())
}

func TestCreateTicketDefaultsPriorityToMedium(t *testing.T) {
	svc := NewTicketService(repotest.NewTickets())
	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", UserID: "U1"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
}

func TestAddCommentValidationAndMissingTicket(t *testing.T) {
	svc := NewTicketService(repotest.NewTickets())
	ctx := context.Background()

	_, err := svc.AddComment(ctx, "nope", CommentInput{UserID: "U2"})
	requireCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, "userId and comment are required", apperrors.ToDomainError(err).Message)

	_, err = svc.AddComment(ctx, "nope", CommentInput{UserID: "U2", Comment: "hi"})
	requireCode(t, err, apperrors.CodeNotFound)
	assert.Equal(t, "Ticket not found", apperrors.ToDomainError(err).Message)
}

func TestConcurrentCommentsAreAllKept(t *testing.T) {
	svc := NewTicketService(repotest.NewTickets())
	ctx := context.Background()
	ticket, err := svc.Create(ctx, TicketCreateInput{Title: "t", Description: "d", UserID: "U1"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddComment(ctx, ticket.ID, CommentInput{UserID: "U2", Comment: "ping"})
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 20)
}

func TestUpdateTicket(t *testing.T) {
	svc := NewTicketService(repotest.NewTickets())
	ctx := context.Background()
	ticket, err := svc.Create(ctx, TicketCreateInput{Title: "t", Description: "d", UserID: "U1", AssignedTo: ptr("OP1")})
	require.NoError(t, err)
	require.NotNil(t, ticket.AssignedTo)

	_, err = svc.Update(ctx, ticket.ID, TicketUpdateInput{})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = svc.Update(ctx, ticket.ID, TicketUpdateInput{Status: ptr(domain.TicketStatus("pending"))})
	requireCode(t, err, apperrors.CodeValidation)

	updated, err := svc.Update(ctx, ticket.ID, TicketUpdateInput{
		Status:     ptr(domain.TicketStatusInProgress),
		AssignedTo: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.Nil(t, updated.AssignedTo)
	assert.Equal(t, "t", updated.Title)

	_, err = svc.Update(ctx, "missing", TicketUpdateInput{Title: ptr("x")})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestListAndDeleteTickets(t *testing.T) {
	svc := NewTicketService(repotest.NewTickets())
	ctx := context.Background()
	for _, p := range []domain.TicketPriority{domain.TicketPriorityLow, domain.TicketPriorityHigh, domain.TicketPriorityHigh} {
		_, err := svc.Create(ctx, TicketCreateInput{Title: "t", Description: "d", UserID: "U1", Priority: p})
		require.NoError(t, err)
	}

	high, total, err := svc.List(ctx, TicketListFilter{Priority: domain.TicketPriorityHigh}, Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, high, 2)

	require.NoError(t, svc.Delete(ctx, high[0].ID))
	requireCode(t, svc.Delete(ctx, high[0].ID), apperrors.CodeNotFound)
}

func TestTicketStoreFailureIsSanitized(t *testing.T) {
	repo := repotest.NewTickets()
	repo.Fail = errors.New("connection refused 10.1.2.3:27017")
	svc := NewTicketService(repo)

	_, _, err := svc.List(context.Background(), TicketListFilter{}, Pagination{})
	requireCode(t, err, apperrors.CodeStoreFailure)
	assert.Equal(t, "internal server error", apperrors.ToDomainError(err).Message)
}
