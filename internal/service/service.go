package service

import (
	"errors"

	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination is the 1-based page/limit pair accepted by list endpoints.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies defaults (page 1, limit 10) and caps the limit.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Pagination) window() repository.Page {
	p = p.Normalize()
	return repository.Page{Offset: (p.Page - 1) * p.Limit, Limit: p.Limit}
}

// storeError translates repository sentinels into client-facing errors.
func storeError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewDuplicate(resource+" already exists", nil)
	default:
		return apperrors.NewStoreFailure(err)
	}
}
