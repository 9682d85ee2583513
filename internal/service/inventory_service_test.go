package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type inventoryFixture struct {
	svc        *InventoryService
	categories *repotest.Categories
	suppliers  *repotest.Suppliers
	items      *repotest.Items
}

func newInventoryFixture() inventoryFixture {
	f := inventoryFixture{
		categories: repotest.NewCategories(),
		suppliers:  repotest.NewSuppliers(),
		items:      repotest.NewItems(),
	}
	f.svc = NewInventoryService(InventoryDependencies{
		CategoryRepo: f.categories,
		SupplierRepo: f.suppliers,
		ItemRepo:     f.items,
	})
	return f
}

func (f inventoryFixture) seed(t *testing.T) (*domain.Category, *domain.Supplier) {
	t.Helper()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, "Printers", "Office printers")
	require.NoError(t, err)
	supplier, err := f.svc.CreateSupplier(ctx, &domain.Supplier{
		Name:        "Acme",
		ContactInfo: domain.ContactInfo{Email: "sales@acme.test", Phone: "555-0100"},
	})
	require.NoError(t, err)
	return category, supplier
}

func TestItemRoundTripIsPopulated(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	category, supplier := f.seed(t)

	created, err := f.svc.CreateItem(ctx, ItemInput{Name: "Toner", CategoryID: category.ID, SupplierID: supplier.ID, Quantity: 4, Price: 39.5})
	require.NoError(t, err)

	got, err := f.svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	require.NotNil(t, got.Supplier)
	assert.Equal(t, "Printers", got.Category.Name)
	assert.Equal(t, "sales@acme.test", got.Supplier.ContactInfo.Email)
	assert.Equal(t, 4, got.Quantity)

	list, total, err := f.svc.ListItems(ctx, Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, category.ID, list[0].Category.ID)
	assert.Equal(t, supplier.ID, list[0].Supplier.ID)
}

func TestCreateItemChecksReferences(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	category, supplier := f.seed(t)

	_, err := f.svc.CreateItem(ctx, ItemInput{Name: "x", CategoryID: "missing", SupplierID: supplier.ID})
	requireCode(t, err, apperrors.CodeNotFound)
	assert.Equal(t, "Category not found", apperrors.ToDomainError(err).Message)

	_, err = f.svc.CreateItem(ctx, ItemInput{Name: "x", CategoryID: category.ID, SupplierID: "missing"})
	requireCode(t, err, apperrors.CodeNotFound)
	assert.Equal(t, "Supplier not found", apperrors.ToDomainError(err).Message)

	_, err = f.svc.CreateItem(ctx, ItemInput{Name: "x", CategoryID: category.ID, SupplierID: supplier.ID, Quantity: -1})
	requireCode(t, err, apperrors.CodeValidation)

	_, total, err := f.svc.ListItems(ctx, Pagination{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateItemChecksReferences(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	category, supplier := f.seed(t)
	item, err := f.svc.CreateItem(ctx, ItemInput{Name: "Toner", CategoryID: category.ID, SupplierID: supplier.ID, Price: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateItem(ctx, item.ID, ItemInput{Name: "Toner", CategoryID: "gone", SupplierID: supplier.ID})
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = f.svc.UpdateItem(ctx, "missing", ItemInput{Name: "Toner", CategoryID: category.ID, SupplierID: supplier.ID})
	assert.Equal(t, "Item not found", apperrors.ToDomainError(err).Message)

	updated, err := f.svc.UpdateItem(ctx, item.ID, ItemInput{Name: "Drum", CategoryID: category.ID, SupplierID: supplier.ID, Quantity: 2, Price: 80})
	require.NoError(t, err)
	assert.Equal(t, "Drum", updated.Name)
	assert.Equal(t, "Printers", updated.Category.Name)
}

func TestDanglingReferencePopulatesAsNull(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	category, supplier := f.seed(t)
	item, err := f.svc.CreateItem(ctx, ItemInput{Name: "Toner", CategoryID: category.ID, SupplierID: supplier.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSupplier(ctx, supplier.ID))

	got, err := f.svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Category)
	assert.Nil(t, got.Supplier)
}

func TestCategoryNameIsUnique(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	f.seed(t)

	_, err := f.svc.CreateCategory(ctx, "Printers", "again")
	requireCode(t, err, apperrors.CodeDuplicate)
	assert.Equal(t, "Category already exists", apperrors.ToDomainError(err).Message)

	other, err := f.svc.CreateCategory(ctx, "Monitors", "")
	require.NoError(t, err)
	_, err = f.svc.UpdateCategory(ctx, other.ID, "Printers", "")
	requireCode(t, err, apperrors.CodeDuplicate)

	renamed, err := f.svc.UpdateCategory(ctx, other.ID, "Displays", "LCD")
	require.NoError(t, err)
	assert.Equal(t, "Displays", renamed.Name)
}

func TestSupplierUpdateAndDelete(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	_, supplier := f.seed(t)

	_, err := f.svc.UpdateSupplier(ctx, "missing", domain.Supplier{Name: "x"})
	requireCode(t, err, apperrors.CodeNotFound)

	updated, err := f.svc.UpdateSupplier(ctx, supplier.ID, domain.Supplier{
		Name:        "Acme Ltd",
		ContactInfo: domain.ContactInfo{Email: "ops@acme.test", Phone: "555-0199"},
		Address:     "1 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, supplier.CreatedAt, updated.CreatedAt)

	require.NoError(t, f.svc.DeleteSupplier(ctx, supplier.ID))
	requireCode(t, f.svc.DeleteSupplier(ctx, supplier.ID), apperrors.CodeNotFound)
}
