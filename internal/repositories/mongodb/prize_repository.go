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

// Compile-time check to ensure PrizeRepository implements the interface
var _ repositories.PrizeRepository = (*PrizeRepository)(nil)

// PrizeRepository handles MongoDB operations for Prize
type PrizeRepository struct {
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) *PrizeRepository {
	return &PrizeRepository{
		collection: db.Collection("prizes"),
	}
}

// Create inserts a new prize
func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	if prize.ID.IsZero() {
		prize.ID = primitive.NewObjectID()
	}
	prize.CreatedAt = time.Now()
	prize.UpdatedAt = prize.CreatedAt
	_, err := r.collection.InsertOne(ctx, prize)
	return err
}

// FindByID finds a prize by ID
func (r *PrizeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	var prize models.Prize
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prize)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("prize", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &prize, nil
}

// FindAll returns the full catalog, including out-of-stock prizes.
func (r *PrizeRepository) FindAll(ctx context.Context) ([]*models.Prize, error) {
	opts := options.Find().SetSort(bson.D{{Key: "pointsCost", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prizes []*models.Prize
	if err = cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	if prizes == nil {
		prizes = []*models.Prize{}
	}
	return prizes, nil
}

// Update updates an existing prize
func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	prize.UpdatedAt = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": prize.ID}, bson.M{"$set": prize})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("prize", prize.ID.Hex())
	}
	return nil
}

// Delete deletes a prize by ID
func (r *PrizeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("prize", id.Hex())
	}
	return nil
}

// DecrementQuantity takes one unit from an active prize that still has stock.
// The quantityAvailable > 0 guard lives in the same update, so two concurrent
// redemptions of the last unit cannot both match: the loser gets ErrOutOfStock.
func (r *PrizeRepository) DecrementQuantity(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":               id,
		"active":            true,
		"quantityAvailable": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"quantityAvailable": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("prize %s: %w", id.Hex(), apperr.ErrOutOfStock)
	}
	return err
}
