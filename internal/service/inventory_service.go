package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// InventoryService manages categories, suppliers and items.
type InventoryService struct {
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	items      repository.ItemRepository
}

// InventoryDependencies bundles repositories for the inventory service.
type InventoryDependencies struct {
	CategoryRepo repository.CategoryRepository
	SupplierRepo repository.SupplierRepository
	ItemRepo     repository.ItemRepository
}

// ItemInput is the writable part of an item.
type ItemInput struct {
	Name       string
	CategoryID string
	SupplierID string
	Quantity   int
	Price      float64
}

// NewInventoryService constructs the service.
func NewInventoryService(deps InventoryDependencies) *InventoryService {
	return &InventoryService{
		categories: deps.CategoryRepo,
		suppliers:  deps.SupplierRepo,
		items:      deps.ItemRepo,
	}
}

var errCategoryExists = apperrors.NewDuplicate("Category already exists", nil)

// CreateCategory rejects a name that is already taken.
func (s *InventoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	exists, err := s.categories.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if exists {
		return nil, errCategoryExists
	}

	category := &domain.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errCategoryExists
		}
		return nil, storeError(err, "Category")
	}
	return category, nil
}

func (s *InventoryService) ListCategories(ctx context.Context, p Pagination) ([]domain.Category, int64, error) {
	categories, total, err := s.categories.List(ctx, p.window())
	if err != nil {
		return nil, 0, storeError(err, "Category")
	}
	return categories, total, nil
}

func (s *InventoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Category")
	}
	return category, nil
}

func (s *InventoryService) UpdateCategory(ctx context.Context, id, name, description string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Category")
	}
	name = strings.TrimSpace(name)
	exists, err := s.categories.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if exists {
		return nil, errCategoryExists
	}

	category.Name = name
	category.Description = description
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errCategoryExists
		}
		return nil, storeError(err, "Category")
	}
	return category, nil
}

func (s *InventoryService) DeleteCategory(ctx context.Context, id string) error {
	return storeError(s.categories.Delete(ctx, id), "Category")
}

func (s *InventoryService) CreateSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, storeError(err, "Supplier")
	}
	return supplier, nil
}

func (s *InventoryService) ListSuppliers(ctx context.Context, p Pagination) ([]domain.Supplier, int64, error) {
	suppliers, total, err := s.suppliers.List(ctx, p.window())
	if err != nil {
		return nil, 0, storeError(err, "Supplier")
	}
	return suppliers, total, nil
}

func (s *InventoryService) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Supplier")
	}
	return supplier, nil
}

// UpdateSupplier replaces name, contact info and address.
func (s *InventoryService) UpdateSupplier(ctx context.Context, id string, changes domain.Supplier) (*domain.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Supplier")
	}
	supplier.Name = changes.Name
	supplier.ContactInfo = changes.ContactInfo
	supplier.Address = changes.Address
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, storeError(err, "Supplier")
	}
	return supplier, nil
}

func (s *InventoryService) DeleteSupplier(ctx context.Context, id string) error {
	return storeError(s.suppliers.Delete(ctx, id), "Supplier")
}

// CreateItem checks that the category and supplier exist before storing.
func (s *InventoryService) CreateItem(ctx context.Context, input ItemInput) (*domain.PopulatedItem, error) {
	category, supplier, err := s.resolveReferences(ctx, input)
	if err != nil {
		return nil, err
	}
	item := &domain.Item{
		Name:       input.Name,
		CategoryID: input.CategoryID,
		SupplierID: input.SupplierID,
		Quantity:   input.Quantity,
		Price:      input.Price,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, storeError(err, "Item")
	}
	return populate(*item, category, supplier), nil
}

// ListItems returns a page of items with references resolved in two batch reads.
func (s *InventoryService) ListItems(ctx context.Context, p Pagination) ([]domain.PopulatedItem, int64, error) {
	items, total, err := s.items.List(ctx, p.window())
	if err != nil {
		return nil, 0, storeError(err, "Item")
	}

	categoryIDs := make([]string, 0, len(items))
	supplierIDs := make([]string, 0, len(items))
	for _, item := range items {
		categoryIDs = append(categoryIDs, item.CategoryID)
		supplierIDs = append(supplierIDs, item.SupplierID)
	}
	categories, err := s.categories.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, 0, apperrors.NewStoreFailure(err)
	}
	suppliers, err := s.suppliers.GetByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, 0, apperrors.NewStoreFailure(err)
	}

	categoryByID := make(map[string]*domain.Category, len(categories))
	for i := range categories {
		categoryByID[categories[i].ID] = &categories[i]
	}
	supplierByID := make(map[string]*domain.Supplier, len(suppliers))
	for i := range suppliers {
		supplierByID[suppliers[i].ID] = &suppliers[i]
	}

	out := make([]domain.PopulatedItem, 0, len(items))
	for _, item := range items {
		out = append(out, *populate(item, categoryByID[item.CategoryID], supplierByID[item.SupplierID]))
	}
	return out, total, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id string) (*domain.PopulatedItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Item")
	}
	category, err := s.lookupCategory(ctx, item.CategoryID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.lookupSupplier(ctx, item.SupplierID)
	if err != nil {
		return nil, err
	}
	return populate(*item, category, supplier), nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, id string, input ItemInput) (*domain.PopulatedItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Item")
	}
	category, supplier, err := s.resolveReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.CategoryID = input.CategoryID
	item.SupplierID = input.SupplierID
	item.Quantity = input.Quantity
	item.Price = input.Price
	if err := s.items.Update(ctx, item); err != nil {
		return nil, storeError(err, "Item")
	}
	return populate(*item, category, supplier), nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	return storeError(s.items.Delete(ctx, id), "Item")
}

func (s *InventoryService) resolveReferences(ctx context.Context, input ItemInput) (*domain.Category, *domain.Supplier, error) {
	if input.Quantity < 0 || input.Price < 0 {
		return nil, nil, apperrors.NewValidationError("quantity and price must not be negative", nil)
	}
	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, nil, storeError(err, "Category")
	}
	supplier, err := s.suppliers.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, nil, storeError(err, "Supplier")
	}
	return category, supplier, nil
}

// lookupCategory tolerates a dangling reference.
func (s *InventoryService) lookupCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return category, nil
}

func (s *InventoryService) lookupSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return supplier, nil
}

func populate(item domain.Item, category *domain.Category, supplier *domain.Supplier) *domain.PopulatedItem {
	return &domain.PopulatedItem{
		ID:        item.ID,
		Name:      item.Name,
		Category:  category,
		Supplier:  supplier,
		Quantity:  item.Quantity,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}
}
