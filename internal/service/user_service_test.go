package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestCreateHashesPasswordAndAppliesDefaults(t *testing.T) {
	svc, users, log := newAuditedUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, "admin-1", UserCreateInput{
		Username: "jane",
		Email:    "  Jane@Example.com ",
		Password: "password123",
	})
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.Equal(t, domain.UserStatusActive, stored.Status)
	assert.Equal(t, []string{}, stored.Permissions)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.Empty(t, stored.Password)

	assert.Equal(t, events.EventUserCreated, log.last().Type)
	assert.Equal(t, "admin-1", log.last().ActorID)
	assert.Equal(t, user.ID, log.last().TargetID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuditedUserService(t)
	mustCreateUser(t, svc, "test@example.com", "password123", domain.RoleManager)

	_, err := svc.Create(context.Background(), "", UserCreateInput{
		Username: "testuser2",
		Email:    "test@example.com",
		Password: "password123",
		Role:     domain.RoleOperator,
	})
	requireCode(t, err, apperrors.CodeDuplicate)
}

func TestCreateRejectsUnknownRoleAndStatus(t *testing.T) {
	svc, _, _ := newAuditedUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", UserCreateInput{Username: "x", Email: "x@y.z", Password: "p", Role: "moderator"})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = svc.Create(ctx, "", UserCreateInput{Username: "x", Email: "x@y.z", Password: "p", Status: "banned"})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestResavingWithoutPasswordKeepsHash(t *testing.T) {
	svc, users, _ := newAuditedUserService(t)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "keep@example.com", "password123", domain.RoleUser)

	before, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "admin", user.ID, UserUpdateInput{Username: "renamed", Email: "keep@example.com", Role: domain.RoleOperator})
	require.NoError(t, err)
	_, err = svc.AssignRole(ctx, "admin", user.ID, domain.RoleManager)
	require.NoError(t, err)

	after, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "renamed", after.Username)
	assert.Equal(t, domain.RoleManager, after.Role)

	_, err = svc.Verify(ctx, "keep@example.com", "password123")
	assert.NoError(t, err)
}

func TestVerifyFailsUniformly(t *testing.T) {
	svc, _, _ := newAuditedUserService(t)
	ctx := context.Background()
	mustCreateUser(t, svc, "v@example.com", "password123", domain.RoleUser)

	_, unknown := svc.Verify(ctx, "nobody@example.com", "password123")
	_, wrong := svc.Verify(ctx, "v@example.com", "nope")

	_, err := svc.Create(ctx, "", UserCreateInput{
		Username: "dormant",
		Email:    "dormant@example.com",
		Password: "password123",
		Status:   domain.UserStatusInactive,
	})
	require.NoError(t, err)
	_, inactive := svc.Verify(ctx, "dormant@example.com", "password123")

	for _, err := range []error{unknown, wrong, inactive} {
		requireCode(t, err, apperrors.CodeUnauthorized)
		assert.Equal(t, "Invalid email or password", apperrors.ToDomainError(err).Message)
	}
}

func TestVerifyStoreFailure(t *testing.T) {
	svc, users, _ := newAuditedUserService(t)
	users.Fail = errors.New("server selection timeout")

	_, err := svc.Verify(context.Background(), "a@b.c", "x")
	requireCode(t, err, apperrors.CodeStoreFailure)
}

func TestChangePassword(t *testing.T) {
	svc, users, log := newAuditedUserService(t)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "cp@example.com", "old-password", domain.RoleUser)
	before, _ := users.GetByID(ctx, user.ID)

	err := svc.ChangePassword(ctx, user.ID, "not-it", "new-password")
	requireCode(t, err, apperrors.CodeUnauthorized)
	assert.Equal(t, "Invalid old password", apperrors.ToDomainError(err).Message)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-password", "new-password"))
	after, _ := users.GetByID(ctx, user.ID)
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, events.EventPasswordChanged, log.last().Type)

	_, err = svc.Verify(ctx, "cp@example.com", "new-password")
	assert.NoError(t, err)
	_, err = svc.Verify(ctx, "cp@example.com", "old-password")
	requireCode(t, err, apperrors.CodeUnauthorized)

	err = svc.ChangePassword(ctx, "missing", "a", "b")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestListSearchAndDelete(t *testing.T) {
	svc, _, log := newAuditedUserService(t)
	ctx := context.Background()
	for _, email := range []string{"ann@corp.io", "bob@corp.io", "cid@home.net"} {
		mustCreateUser(t, svc, email, "password123", domain.RoleUser)
	}

	page, total, err := svc.List(ctx, Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "cid@home.net", page[0].Email)

	found, err := svc.Search(ctx, "CORP", Pagination{})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = svc.Search(ctx, "  ", Pagination{})
	requireCode(t, err, apperrors.CodeValidation)

	require.NoError(t, svc.Delete(ctx, "admin", page[0].ID))
	assert.Equal(t, events.EventUserDeleted, log.last().Type)
	requireCode(t, svc.Delete(ctx, "admin", page[0].ID), apperrors.CodeNotFound)
	_, err = svc.Get(ctx, page[0].ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestAssignRole(t *testing.T) {
	svc, _, log := newAuditedUserService(t)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "r@example.com", "password123", domain.RoleUser)

	updated, err := svc.AssignRole(ctx, "admin-9", user.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "admin-9", log.last().ActorID)
	assert.Equal(t, domain.RoleAdmin, log.last().Payload["role"])

	_, err = svc.AssignRole(ctx, "admin-9", "missing", domain.RoleAdmin)
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = svc.AssignRole(ctx, "admin-9", user.ID, "superuser")
	requireCode(t, err, apperrors.CodeValidation)
}

func TestUpdateDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuditedUserService(t)
	ctx := context.Background()
	mustCreateUser(t, svc, "one@example.com", "password123", domain.RoleUser)
	two := mustCreateUser(t, svc, "two@example.com", "password123", domain.RoleUser)

	_, err := svc.Update(ctx, "admin", two.ID, UserUpdateInput{Username: "two", Email: "one@example.com", Role: domain.RoleUser})
	requireCode(t, err, apperrors.CodeDuplicate)
}

func TestPaginationNormalize(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 10}, Pagination{}.Normalize())
	assert.Equal(t, Pagination{Page: 3, Limit: 100}, Pagination{Page: 3, Limit: 5000}.Normalize())
}

func TestPasswordOverBcryptLimitIsValidationError(t *testing.T) {
	svc, users, _ := newAuditedUserService(t)
	ctx := context.Background()
	long := strings.Repeat("é", 40)

	_, err := svc.Create(ctx, "", UserCreateInput{Username: "long", Email: "long@example.com", Password: long})
	requireCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, "password must be at most 72 bytes", apperrors.ToDomainError(err).Message)

	user := mustCreateUser(t, svc, "short@example.com", "password123", domain.RoleUser)
	err = svc.ChangePassword(ctx, user.ID, "password123", long)
	requireCode(t, err, apperrors.CodeValidation)

	_, total, err := users.List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

// interleavedUsers runs between once, right after a GetByID read, like a
// request landing between a read and the write that follows it.
type interleavedUsers struct {
	*repotest.Users
	between func(ctx context.Context, id string)
}

func (r *interleavedUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.Users.GetByID(ctx, id)
	if r.between != nil {
		between := r.between
		r.between = nil
		between(ctx, id)
	}
	return user, err
}

func TestChangePasswordKeepsConcurrentRoleRevocation(t *testing.T) {
	base := repotest.NewUsers()
	repo := &interleavedUsers{Users: base}
	svc := NewUserService(config.AuthConfig{BcryptCost: 10}, repo, nil)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "revoked@example.com", "password123", domain.RoleAdmin)

	repo.between = func(ctx context.Context, id string) {
		_, err := base.UpdateRole(ctx, id, domain.RoleUser)
		require.NoError(t, err)
	}
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "password123", "changed123"))

	stored, err := base.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
	_, err = svc.Verify(ctx, "revoked@example.com", "changed123")
	assert.NoError(t, err)
}

func TestProfileUpdateKeepsConcurrentPasswordChange(t *testing.T) {
	base := repotest.NewUsers()
	repo := &interleavedUsers{Users: base}
	svc := NewUserService(config.AuthConfig{BcryptCost: 10}, repo, nil)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "profile@example.com", "password123", domain.RoleUser)

	repo.between = func(ctx context.Context, id string) {
		hash, err := auth.HashPassword("changed123", 10)
		require.NoError(t, err)
		require.NoError(t, base.UpdatePassword(ctx, id, hash))
	}
	updated, err := svc.Update(ctx, "admin", user.ID, UserUpdateInput{Username: "renamed", Email: "profile@example.com", Role: domain.RoleOperator})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, updated.Role)

	_, err = svc.Verify(ctx, "profile@example.com", "changed123")
	assert.NoError(t, err)
}
