package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type ticketPayload struct {
	Title    string `json:"title" validate:"required"`
	Status   string `json:"status" validate:"omitempty,ticketstatus"`
	Priority string `json:"priority" validate:"omitempty,ticketpriority"`
	Comments []struct {
		Comment string `json:"comment" validate:"required"`
	} `json:"comments" validate:"omitempty,dive"`
}

type userPayload struct {
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,role"`
	Status string `json:"status" validate:"omitempty,userstatus"`
}

func TestStructAcceptsValidPayload(t *testing.T) {
	require.NoError(t, Struct(ticketPayload{Title: "Printer broken", Status: "in progress", Priority: "high"}))
	require.NoError(t, Struct(userPayload{Email: "a@b.io", Role: "operator"}))
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	err := Struct(ticketPayload{})
	require.Error(t, err)

	derr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, derr.Code)
	assert.Equal(t, "title is required", derr.Message)
}

func TestStructRejectsUnknownEnumValues(t *testing.T) {
	err := Struct(ticketPayload{Title: "x", Status: "pending"})
	require.Error(t, err)
	assert.Equal(t, "status must be one of [open, in progress, closed]", apperrors.ToDomainError(err).Message)

	err = Struct(userPayload{Email: "a@b.io", Role: "root"})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Message, "role must be one of")

	err = Struct(userPayload{Email: "a@b.io", Role: "user", Status: "banned"})
	require.Error(t, err)
	assert.Equal(t, "status must be one of [active, inactive]", apperrors.ToDomainError(err).Message)
}

func TestStructReportsNestedFields(t *testing.T) {
	payload := ticketPayload{Title: "x"}
	payload.Comments = append(payload.Comments, struct {
		Comment string `json:"comment" validate:"required"`
	}{})

	err := Struct(payload)
	require.Error(t, err)
	assert.Equal(t, "comments[0].comment is required", apperrors.ToDomainError(err).Message)
}

func TestStructListsEveryFailure(t *testing.T) {
	err := Struct(userPayload{Email: "nope"})
	require.Error(t, err)

	details := apperrors.ToDomainError(err).Details
	assert.Equal(t, []string{"email must be a valid email", "role is required"}, details["errors"])
}

func TestStructCountsPasswordBytes(t *testing.T) {
	type passwordPayload struct {
		Password string `json:"password" validate:"required,passwordbytes"`
	}

	require.NoError(t, Struct(passwordPayload{Password: strings.Repeat("é", 36)}))

	err := Struct(passwordPayload{Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Equal(t, "password must be at most 72 bytes", apperrors.ToDomainError(err).Message)
}
