package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with the domain tags registered.
func Get() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("userstatus", func(fl validator.FieldLevel) bool {
		return domain.UserStatus(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("passwordbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= domain.MaxPasswordBytes
	})
	_ = validate.RegisterValidation("ticketstatus", func(fl validator.FieldLevel) bool {
		return domain.TicketStatus(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("ticketpriority", func(fl validator.FieldLevel) bool {
		return domain.TicketPriority(fl.Field().String()).IsValid()
	})
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Struct validates payload and converts failures into a 400 domain error.
// The first failure becomes the message; all of them are listed in details.
func Struct(payload any) error {
	err := Get().Struct(payload)
	if err == nil {
		return nil
	}
	errs := ParseErrors(err)
	return apperrors.NewValidationError(errs[0], map[string]any{"errors": errs})
}

// ParseErrors renders validator failures as client-facing sentences.
func ParseErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"invalid request payload"}
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, prettyError(e))
	}
	return errs
}

func prettyError(e validator.FieldError) string {
	field := fieldPath(e)
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at least %s characters long", field, e.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, e.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
	case "role":
		return fmt.Sprintf("%s must be one of [%s]", field, joinValues(domain.Roles))
	case "userstatus":
		return fmt.Sprintf("%s must be one of [%s, %s]", field, domain.UserStatusActive, domain.UserStatusInactive)
	case "passwordbytes":
		return fmt.Sprintf("%s must be at most %d bytes", field, domain.MaxPasswordBytes)
	case "ticketstatus":
		return fmt.Sprintf("%s must be one of [%s]", field, joinValues(domain.TicketStatuses))
	case "ticketpriority":
		return fmt.Sprintf("%s must be one of [%s]", field, joinValues(domain.TicketPriorities))
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, e.Tag())
	}
}

// fieldPath drops the root struct name from the namespace so nested fields
// read as comments[0].comment.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return e.Field()
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
