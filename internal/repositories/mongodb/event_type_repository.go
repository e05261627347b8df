package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure EventTypeRepository implements the interface
var _ repositories.EventTypeRepository = (*EventTypeRepository)(nil)

// EventTypeRepository handles MongoDB operations for EventType
type EventTypeRepository struct {
	collection *mongo.Collection
}

// NewEventTypeRepository creates a new EventTypeRepository
func NewEventTypeRepository(db *mongo.Database) *EventTypeRepository {
	return &EventTypeRepository{
		collection: db.Collection("event_types"),
	}
}

// Create inserts a new event type
func (r *EventTypeRepository) Create(ctx context.Context, eventType *models.EventType) error {
	if eventType.ID.IsZero() {
		eventType.ID = primitive.NewObjectID()
	}
	eventType.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, eventType)
	return err
}

// FindByID finds an event type by ID
func (r *EventTypeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.EventType, error) {
	var eventType models.EventType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&eventType)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("event type", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &eventType, nil
}

// FindByKey finds an event type by its unique key
func (r *EventTypeRepository) FindByKey(ctx context.Context, key string) (*models.EventType, error) {
	var eventType models.EventType
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&eventType)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("event type", key)
	}
	if err != nil {
		return nil, err
	}
	return &eventType, nil
}

// FindAll returns every event type.
func (r *EventTypeRepository) FindAll(ctx context.Context) ([]*models.EventType, error) {
	return r.find(ctx, bson.M{})
}

// FindActive returns event types that may still generate transactions.
func (r *EventTypeRepository) FindActive(ctx context.Context) ([]*models.EventType, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *EventTypeRepository) find(ctx context.Context, filter bson.M) ([]*models.EventType, error) {
	opts := options.Find().SetSort(bson.D{{Key: "key", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var eventTypes []*models.EventType
	if err = cursor.All(ctx, &eventTypes); err != nil {
		return nil, err
	}
	if eventTypes == nil {
		eventTypes = []*models.EventType{}
	}
	return eventTypes, nil
}

// Update updates an existing event type
func (r *EventTypeRepository) Update(ctx context.Context, eventType *models.EventType) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": eventType.ID}, bson.M{"$set": eventType})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("event type", eventType.ID.Hex())
	}
	return nil
}

// Delete deletes an event type by ID
func (r *EventTypeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("event type", id.Hex())
	}
	return nil
}
