package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewNotFound("user", nil))

	got := ToDomainError(wrapped)
	assert.Equal(t, CodeNotFound, got.Code)
	assert.Equal(t, "user not found", got.Message)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestToDomainError_SanitizesUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset by peer 10.0.0.3:27017")

	got := ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.Equal(t, "internal server error", got.Message)
	assert.NotContains(t, got.Message, "10.0.0.3")
	assert.ErrorIs(t, got, cause)
}

func TestToDomainError_FiberErrors(t *testing.T) {
	cases := []struct {
		in   *fiber.Error
		code string
		msg  string
	}{
		{fiber.NewError(http.StatusNotFound, "Cannot GET /x"), CodeNotFound, "Route not found"},
		{fiber.NewError(http.StatusBadRequest, "bad json"), CodeValidation, "bad json"},
		{fiber.NewError(http.StatusTooManyRequests, "slow down"), CodeRateLimited, "slow down"},
		{fiber.NewError(http.StatusBadGateway, "upstream"), CodeInternal, "internal server error"},
	}
	for _, tc := range cases {
		got := ToDomainError(tc.in)
		assert.Equal(t, tc.code, got.Code, tc.in.Message)
		assert.Equal(t, tc.msg, got.Message)
	}
}

func TestStoreFailureKeepsCause(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := NewStoreFailure(cause)

	assert.True(t, Is(err, CodeStoreFailure))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", ToDomainError(err).Message)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestIsMatchesWrappedCode(t *testing.T) {
	err := fmt.Errorf("login: %w", NewUnauthorized("nope"))
	assert.True(t, Is(err, CodeUnauthorized))
	assert.False(t, Is(err, CodeForbidden))
	assert.False(t, Is(errors.New("plain"), CodeUnauthorized))
}
