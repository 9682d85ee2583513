package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// CategoryRequest payload for category create/update.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// ContactInfoRequest is the mandatory supplier contact.
type ContactInfoRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// SupplierRequest payload for supplier create/update.
type SupplierRequest struct {
	Name        string             `json:"name" validate:"required"`
	ContactInfo ContactInfoRequest `json:"contactInfo" validate:"required"`
	Address     string             `json:"address"`
}

// ItemRequest payload for item create/update.
type ItemRequest struct {
	Name       string   `json:"name" validate:"required"`
	CategoryID string   `json:"category" validate:"required"`
	SupplierID string   `json:"supplier" validate:"required"`
	Quantity   *int     `json:"quantity" validate:"omitempty,gte=0"`
	Price      *float64 `json:"price" validate:"required,gte=0"`
}

type CategoryListResponse struct {
	TotalCategories int64             `json:"totalCategories"`
	Page            int               `json:"page"`
	Limit           int               `json:"limit"`
	Categories      []domain.Category `json:"categories"`
}

type SupplierListResponse struct {
	TotalSuppliers int64             `json:"totalSuppliers"`
	Page           int               `json:"page"`
	Limit          int               `json:"limit"`
	Suppliers      []domain.Supplier `json:"suppliers"`
}

type ItemListResponse struct {
	TotalItems int64                  `json:"totalItems"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Items      []domain.PopulatedItem `json:"items"`
}

// MessageResponse is the body of acknowledgement-only endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
