package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilter narrows ticket listings. Zero values match everything.
type TicketFilter struct {
	UserID     string
	AssignedTo string
	Status     domain.TicketStatus
	Priority   domain.TicketPriority
}

func (f TicketFilter) bson() bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.AssignedTo != "" {
		filter["assignedTo"] = f.AssignedTo
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	return filter
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter, page Page) ([]domain.Ticket, int64, error)
	AddComment(ctx context.Context, id string, comment domain.Comment) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	col *mongo.Collection
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db *mongo.Database) TicketRepository {
	return &ticketRepository{col: db.Collection(ticketsCollection)}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	ticket.ID = NewID()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	if ticket.Comments == nil {
		ticket.Comments = []domain.Comment{}
	}
	_, err := r.col.InsertOne(ctx, ticket)
	return handleDatabaseError(err)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	ticket.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":       ticket.Title,
		"description": ticket.Description,
		"status":      ticket.Status,
		"priority":    ticket.Priority,
		"updatedAt":   ticket.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if ticket.AssignedTo != nil {
		set["assignedTo"] = *ticket.AssignedTo
	} else {
		update["$unset"] = bson.M{"assignedTo": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": ticket.ID}, update)
	if err != nil {
		return handleDatabaseError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter, page Page) ([]domain.Ticket, int64, error) {
	query := filter.bson()
	cursor, err := r.col.Find(ctx, query, findOptions(page))
	if err != nil {
		return nil, 0, handleDatabaseError(err)
	}
	defer cursor.Close(ctx)

	tickets := []domain.Ticket{}
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, 0, err
	}
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, handleDatabaseError(err)
	}
	return tickets, total, nil
}

// AddComment appends with $push so concurrent comments never overwrite each other.
func (r *ticketRepository) AddComment(ctx context.Context, id string, comment domain.Comment) (*domain.Ticket, error) {
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ticket domain.Ticket
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&ticket); err != nil {
		return nil, handleDatabaseError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return handleDatabaseError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
