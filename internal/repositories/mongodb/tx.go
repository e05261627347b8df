package mongodb

import (
	"context"

	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure TxRunner implements the interface
var _ repositories.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a MongoDB session transaction. Requires
// a replica set or mongos deployment, which is also what the driver's
// retryable-write guarantees assume.
type TxRunner struct {
	client *mongo.Client
}

// NewTxRunner creates a new TxRunner
func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

// WithTransaction runs fn inside a session transaction. The driver retries
// transient transaction errors internally; any error returned by fn aborts
// the transaction and is passed through unchanged.
func (r *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
