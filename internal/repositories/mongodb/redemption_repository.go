package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure RedemptionRepository implements the interface
var _ repositories.RedemptionRepository = (*RedemptionRepository)(nil)

// RedemptionRepository handles MongoDB operations for Redemption
type RedemptionRepository struct {
	collection *mongo.Collection
}

// NewRedemptionRepository creates a new RedemptionRepository
func NewRedemptionRepository(db *mongo.Database) *RedemptionRepository {
	return &RedemptionRepository{
		collection: db.Collection("redemptions"),
	}
}

// EnsureIndexes creates the unique index on idempotencyKey. The index is
// partial so only redemptions that carry a key participate; it is what makes
// duplicate retries safe across concurrent sessions.
func (r *RedemptionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$type": "string"}}),
	})
	return err
}

// Create inserts a new redemption record. A duplicate idempotency key is
// reported as apperr.ErrConflict so the service can return the original
// redemption instead.
func (r *RedemptionRepository) Create(ctx context.Context, redemption *models.Redemption) error {
	if redemption.ID.IsZero() {
		redemption.ID = primitive.NewObjectID()
	}
	if redemption.CreatedAt.IsZero() {
		redemption.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, redemption)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("redemption key %q: %w", redemption.IdempotencyKey, apperr.ErrConflict)
	}
	return err
}

// FindByID finds a redemption by ID
func (r *RedemptionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Redemption, error) {
	var redemption models.Redemption
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&redemption)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("redemption", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// FindByUserID finds all redemptions for a user, newest first.
func (r *RedemptionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Redemption, error) {
	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var redemptions []*models.Redemption
	if err = cursor.All(ctx, &redemptions); err != nil {
		return nil, err
	}
	if redemptions == nil {
		redemptions = []*models.Redemption{}
	}
	return redemptions, nil
}

// FindByIdempotencyKey finds the redemption created for a given idempotency key.
func (r *RedemptionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Redemption, error) {
	var redemption models.Redemption
	err := r.collection.FindOne(ctx, bson.M{"idempotencyKey": key}).Decode(&redemption)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("redemption", key)
	}
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}
