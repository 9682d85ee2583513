package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/validation"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// bind decodes the JSON body into req and runs its validate tags.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validation.Struct(req)
}

// pagination reads ?page and ?limit, falling back to 1 and 10.
func pagination(c *fiber.Ctx) service.Pagination {
	return service.Pagination{
		Page:  c.QueryInt("page", 0),
		Limit: c.QueryInt("limit", 0),
	}.Normalize()
}
