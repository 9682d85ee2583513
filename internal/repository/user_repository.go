package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserProfile is the admin-editable part of an account.
type UserProfile struct {
	Username string
	Email    string
	Role     domain.Role
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	UpdateProfile(ctx context.Context, id string, profile UserProfile) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page Page) ([]domain.User, int64, error)
	Search(ctx context.Context, term string, page Page) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository returns a Mongo-backed implementation.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.ID = NewID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	_, err := r.col.InsertOne(ctx, user)
	return handleDatabaseError(err)
}

// UpdateProfile sets only username, email and role so a concurrent password
// change is never overwritten.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, profile UserProfile) (*domain.User, error) {
	update := bson.M{"$set": bson.M{
		"username":  profile.Username,
		"email":     profile.Email,
		"role":      profile.Role,
		"updatedAt": time.Now().UTC(),
	}}
	return r.findAndUpdate(ctx, id, update)
}

// UpdatePassword sets only the stored hash, leaving a role assigned meanwhile intact.
func (r *userRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	update := bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return handleDatabaseError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	update := bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}}
	return r.findAndUpdate(ctx, id, update)
}

func (r *userRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, page Page) ([]domain.User, int64, error) {
	return r.find(ctx, bson.M{}, page, true)
}

func (r *userRepository) Search(ctx context.Context, term string, page Page) ([]domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": containsInsensitive(term)},
		bson.M{"email": containsInsensitive(term)},
	}}
	users, _, err := r.find(ctx, filter, page, false)
	return users, err
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return handleDatabaseError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) find(ctx context.Context, filter bson.M, page Page, count bool) ([]domain.User, int64, error) {
	cursor, err := r.col.Find(ctx, filter, findOptions(page))
	if err != nil {
		return nil, 0, handleDatabaseError(err)
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	if !count {
		return users, 0, nil
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, handleDatabaseError(err)
	}
	return users, total, nil
}
