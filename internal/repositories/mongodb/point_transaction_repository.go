package mongodb

import (
	"context"
	"time"

	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure PointTransactionRepository implements the interface
var _ repositories.PointTransactionRepository = (*PointTransactionRepository)(nil)

// PointTransactionRepository handles MongoDB operations for the points ledger.
// The ledger is append-only: this type deliberately has no update or delete.
type PointTransactionRepository struct {
	collection *mongo.Collection
}

// NewPointTransactionRepository creates a new PointTransactionRepository
func NewPointTransactionRepository(db *mongo.Database) *PointTransactionRepository {
	return &PointTransactionRepository{
		collection: db.Collection("point_transactions"),
	}
}

// Create inserts a new ledger entry.
func (r *PointTransactionRepository) Create(ctx context.Context, transaction *models.PointTransaction) error {
	if transaction.ID.IsZero() {
		transaction.ID = primitive.NewObjectID()
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, transaction)
	return err
}

// FindByUserID finds all ledger entries for a user, newest first.
func (r *PointTransactionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PointTransaction, error) {
	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []*models.PointTransaction
	if err = cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*models.PointTransaction{}
	}
	return transactions, nil
}

// SumByUserID computes the user's balance as the sum of their ledger entries.
// A user with no entries has a balance of zero.
func (r *PointTransactionRepository) SumByUserID(ctx context.Context, userID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$points"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// CountByUserAndTypeSince counts entries of one event type for one user
// created at or after the given instant.
func (r *PointTransactionRepository) CountByUserAndTypeSince(ctx context.Context, userID, eventTypeID primitive.ObjectID, since time.Time) (int64, error) {
	filter := bson.M{
		"userId":      userID,
		"eventTypeId": eventTypeID,
		"createdAt":   bson.M{"$gte": since},
	}
	return r.collection.CountDocuments(ctx, filter)
}
