package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CategoryRepository manages category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, page Page) ([]domain.Category, int64, error)
	Delete(ctx context.Context, id string) error
}

// SupplierRepository manages supplier persistence.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Supplier, error)
	List(ctx context.Context, page Page) ([]domain.Supplier, int64, error)
	Delete(ctx context.Context, id string) error
}

// ItemRepository manages inventory item persistence.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, page Page) ([]domain.Item, int64, error)
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	col *mongo.Collection
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &categoryRepository{col: db.Collection(categoriesCollection)}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	category.ID = NewID()
	_, err := r.col.InsertOne(ctx, category)
	return handleDatabaseError(err)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	update := bson.M{"$set": bson.M{"name": category.Name, "description": category.Description}}
	return updateByID(ctx, r.col, category.ID, update)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	result := []domain.Category{}
	err := findAll(ctx, r.col, bson.M{"_id": bson.M{"$in": ids}}, Page{}, &result)
	return result, err
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	filter := bson.M{"name": name}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, handleDatabaseError(err)
	}
	return count > 0, nil
}

func (r *categoryRepository) List(ctx context.Context, page Page) ([]domain.Category, int64, error) {
	result := []domain.Category{}
	total, err := findPage(ctx, r.col, page, &result)
	return result, total, err
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

type supplierRepository struct {
	col *mongo.Collection
}

// NewSupplierRepository builds the repository.
func NewSupplierRepository(db *mongo.Database) SupplierRepository {
	return &supplierRepository{col: db.Collection(suppliersCollection)}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	supplier.ID = NewID()
	supplier.CreatedAt = time.Now().UTC()
	_, err := r.col.InsertOne(ctx, supplier)
	return handleDatabaseError(err)
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	update := bson.M{"$set": bson.M{
		"name":        supplier.Name,
		"contactInfo": supplier.ContactInfo,
		"address":     supplier.Address,
	}}
	return updateByID(ctx, r.col, supplier.ID, update)
}

func (r *supplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&supplier); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &supplier, nil
}

func (r *supplierRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Supplier, error) {
	result := []domain.Supplier{}
	err := findAll(ctx, r.col, bson.M{"_id": bson.M{"$in": ids}}, Page{}, &result)
	return result, err
}

func (r *supplierRepository) List(ctx context.Context, page Page) ([]domain.Supplier, int64, error) {
	result := []domain.Supplier{}
	total, err := findPage(ctx, r.col, page, &result)
	return result, total, err
}

func (r *supplierRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

type itemRepository struct {
	col *mongo.Collection
}

// NewItemRepository builds the repository.
func NewItemRepository(db *mongo.Database) ItemRepository {
	return &itemRepository{col: db.Collection(itemsCollection)}
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	item.ID = NewID()
	item.CreatedAt = time.Now().UTC()
	_, err := r.col.InsertOne(ctx, item)
	return handleDatabaseError(err)
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	update := bson.M{"$set": bson.M{
		"name":     item.Name,
		"category": item.CategoryID,
		"supplier": item.SupplierID,
		"quantity": item.Quantity,
		"price":    item.Price,
	}}
	return updateByID(ctx, r.col, item.ID, update)
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, page Page) ([]domain.Item, int64, error) {
	result := []domain.Item{}
	total, err := findPage(ctx, r.col, page, &result)
	return result, total, err
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func updateByID(ctx context.Context, col *mongo.Collection, id string, update bson.M) error {
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return handleDatabaseError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return handleDatabaseError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func findAll(ctx context.Context, col *mongo.Collection, filter bson.M, page Page, out any) error {
	cursor, err := col.Find(ctx, filter, findOptions(page))
	if err != nil {
		return handleDatabaseError(err)
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func findPage(ctx context.Context, col *mongo.Collection, page Page, out any) (int64, error) {
	if err := findAll(ctx, col, bson.M{}, page, out); err != nil {
		return 0, err
	}
	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, handleDatabaseError(err)
	}
	return total, nil
}
