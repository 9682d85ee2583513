package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// InventoryHandler serves items, categories and suppliers.
type InventoryHandler struct {
	service *service.InventoryService
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: inventory}
}

// CreateCategory POST /category.
func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(category)
}

// ListCategories GET /category.
func (h *InventoryHandler) ListCategories(c *fiber.Ctx) error {
	p := pagination(c)
	categories, total, err := h.service.ListCategories(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(dto.CategoryListResponse{TotalCategories: total, Page: p.Page, Limit: p.Limit, Categories: categories})
}

// GetCategory GET /category/:id.
func (h *InventoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// UpdateCategory PUT /category/:id.
func (h *InventoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// DeleteCategory DELETE /category/:id.
func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Category deleted successfully"})
}

// CreateSupplier POST /suppliers.
func (h *InventoryHandler) CreateSupplier(c *fiber.Ctx) error {
	var req dto.SupplierRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.CreateSupplier(c.UserContext(), supplierFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(supplier)
}

// ListSuppliers GET /suppliers.
func (h *InventoryHandler) ListSuppliers(c *fiber.Ctx) error {
	p := pagination(c)
	suppliers, total, err := h.service.ListSuppliers(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(dto.SupplierListResponse{TotalSuppliers: total, Page: p.Page, Limit: p.Limit, Suppliers: suppliers})
}

// GetSupplier GET /suppliers/:id.
func (h *InventoryHandler) GetSupplier(c *fiber.Ctx) error {
	supplier, err := h.service.GetSupplier(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(supplier)
}

// UpdateSupplier PUT /suppliers/:id.
func (h *InventoryHandler) UpdateSupplier(c *fiber.Ctx) error {
	var req dto.SupplierRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.UpdateSupplier(c.UserContext(), c.Params("id"), *supplierFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(supplier)
}

// DeleteSupplier DELETE /suppliers/:id.
func (h *InventoryHandler) DeleteSupplier(c *fiber.Ctx) error {
	if err := h.service.DeleteSupplier(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Supplier deleted successfully"})
}

// CreateItem POST /items.
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var req dto.ItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.CreateItem(c.UserContext(), itemInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(item)
}

// ListItems GET /items.
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	p := pagination(c)
	items, total, err := h.service.ListItems(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(dto.ItemListResponse{TotalItems: total, Page: p.Page, Limit: p.Limit, Items: items})
}

// GetItem GET /items/:id.
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.service.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

// UpdateItem PUT /items/:id.
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	var req dto.ItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.UpdateItem(c.UserContext(), c.Params("id"), itemInput(req))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

// DeleteItem DELETE /items/:id.
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.service.DeleteItem(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Item deleted successfully"})
}

func supplierFromRequest(req dto.SupplierRequest) *domain.Supplier {
	return &domain.Supplier{
		Name:        req.Name,
		ContactInfo: domain.ContactInfo{Email: req.ContactInfo.Email, Phone: req.ContactInfo.Phone},
		Address:     req.Address,
	}
}

func itemInput(req dto.ItemRequest) service.ItemInput {
	in := service.ItemInput{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		SupplierID: req.SupplierID,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	return in
}
