// Package memory provides an in-memory implementation of the repository
// interfaces. It is selected by configuration (STORE_DRIVER=memory) for demos
// and used by the service tests; it is never a silent fallback for a failed
// database connection.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds all collections behind one mutex. WithTransaction snapshots the
// collections and restores them when the callback fails, which gives the same
// all-or-nothing visibility as a MongoDB session transaction.
type Store struct {
	mu           sync.Mutex
	users        map[primitive.ObjectID]models.User
	eventTypes   map[primitive.ObjectID]models.EventType
	transactions []models.PointTransaction
	prizes       map[primitive.ObjectID]models.Prize
	redemptions  []models.Redemption
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:      make(map[primitive.ObjectID]models.User),
		eventTypes: make(map[primitive.ObjectID]models.EventType),
		prizes:     make(map[primitive.ObjectID]models.Prize),
	}
}

// Users returns the roster repository view of the store.
func (s *Store) Users() repositories.UserRepository { return &userRepo{s} }

// EventTypes returns the event type repository view of the store.
func (s *Store) EventTypes() repositories.EventTypeRepository { return &eventTypeRepo{s} }

// Transactions returns the ledger repository view of the store.
func (s *Store) Transactions() repositories.PointTransactionRepository { return &transactionRepo{s} }

// Prizes returns the catalog repository view of the store.
func (s *Store) Prizes() repositories.PrizeRepository { return &prizeRepo{s} }

// Redemptions returns the redemption repository view of the store.
func (s *Store) Redemptions() repositories.RedemptionRepository { return &redemptionRepo{s} }

var _ repositories.TxRunner = (*Store)(nil)

type txKey struct{}

// WithTransaction runs fn while holding the store mutex. Nested calls reuse
// the outer transaction. On error every collection is restored to its state
// at entry, so no partial effects are visible.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked()
	err := fn(context.WithValue(ctx, txKey{}, struct{}{}))
	if err != nil {
		s.restoreLocked(snap)
	}
	return err
}

// lock acquires the store mutex unless the context already runs inside a
// transaction, in which case the mutex is held by WithTransaction.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	users        map[primitive.ObjectID]models.User
	eventTypes   map[primitive.ObjectID]models.EventType
	transactions []models.PointTransaction
	prizes       map[primitive.ObjectID]models.Prize
	redemptions  []models.Redemption
}

func (s *Store) snapshotLocked() snapshot {
	return snapshot{
		users:        copyMap(s.users),
		eventTypes:   copyMap(s.eventTypes),
		transactions: append([]models.PointTransaction(nil), s.transactions...),
		prizes:       copyMap(s.prizes),
		redemptions:  append([]models.Redemption(nil), s.redemptions...),
	}
}

func (s *Store) restoreLocked(snap snapshot) {
	s.users = snap.users
	s.eventTypes = snap.eventTypes
	s.transactions = snap.transactions
	s.prizes = snap.prizes
	s.redemptions = snap.redemptions
}

func copyMap[V any](m map[primitive.ObjectID]V) map[primitive.ObjectID]V {
	out := make(map[primitive.ObjectID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ---------------------------------------------------------------------------
// Users

type userRepo struct{ s *Store }

var _ repositories.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user email %q: %w", user.Email, apperr.ErrConflict)
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	defer r.s.lock(ctx)()
	user, ok := r.s.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id.Hex())
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.lock(ctx)()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user", email)
}

func (r *userRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	defer r.s.lock(ctx)()
	users := r.s.usersSliceLocked()
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID.Hex() < users[j].ID.Hex()
	})
	return users, nil
}

func (r *userRepo) FindAllRanked(ctx context.Context) ([]*models.User, error) {
	defer r.s.lock(ctx)()
	users := r.s.usersSliceLocked()
	sort.Slice(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID.Hex() < users[j].ID.Hex()
	})
	return users, nil
}

func (s *Store) usersSliceLocked() []*models.User {
	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		u := user
		users = append(users, &u)
	}
	return users
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.users[user.ID]; !ok {
		return apperr.NotFound("user", user.ID.Hex())
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.users[id]; !ok {
		return apperr.NotFound("user", id.Hex())
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) IncrementPoints(ctx context.Context, id primitive.ObjectID, delta int) error {
	defer r.s.lock(ctx)()
	user, ok := r.s.users[id]
	if !ok {
		return apperr.NotFound("user", id.Hex())
	}
	user.Points += delta
	user.UpdatedAt = time.Now()
	r.s.users[id] = user
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	defer r.s.lock(ctx)()
	return int64(len(r.s.users)), nil
}

// ---------------------------------------------------------------------------
// Event types

type eventTypeRepo struct{ s *Store }

var _ repositories.EventTypeRepository = (*eventTypeRepo)(nil)

func (r *eventTypeRepo) Create(ctx context.Context, eventType *models.EventType) error {
	defer r.s.lock(ctx)()
	if eventType.ID.IsZero() {
		eventType.ID = primitive.NewObjectID()
	}
	eventType.CreatedAt = time.Now()
	r.s.eventTypes[eventType.ID] = *eventType
	return nil
}

func (r *eventTypeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.EventType, error) {
	defer r.s.lock(ctx)()
	eventType, ok := r.s.eventTypes[id]
	if !ok {
		return nil, apperr.NotFound("event type", id.Hex())
	}
	return &eventType, nil
}

func (r *eventTypeRepo) FindByKey(ctx context.Context, key string) (*models.EventType, error) {
	defer r.s.lock(ctx)()
	for _, eventType := range r.s.eventTypes {
		if eventType.Key == key {
			et := eventType
			return &et, nil
		}
	}
	return nil, apperr.NotFound("event type", key)
}

func (r *eventTypeRepo) FindAll(ctx context.Context) ([]*models.EventType, error) {
	return r.find(ctx, false)
}

func (r *eventTypeRepo) FindActive(ctx context.Context) ([]*models.EventType, error) {
	return r.find(ctx, true)
}

func (r *eventTypeRepo) find(ctx context.Context, activeOnly bool) ([]*models.EventType, error) {
	defer r.s.lock(ctx)()
	eventTypes := make([]*models.EventType, 0, len(r.s.eventTypes))
	for _, eventType := range r.s.eventTypes {
		if activeOnly && !eventType.Active {
			continue
		}
		et := eventType
		eventTypes = append(eventTypes, &et)
	}
	sort.Slice(eventTypes, func(i, j int) bool { return eventTypes[i].Key < eventTypes[j].Key })
	return eventTypes, nil
}

func (r *eventTypeRepo) Update(ctx context.Context, eventType *models.EventType) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.eventTypes[eventType.ID]; !ok {
		return apperr.NotFound("event type", eventType.ID.Hex())
	}
	r.s.eventTypes[eventType.ID] = *eventType
	return nil
}

func (r *eventTypeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.eventTypes[id]; !ok {
		return apperr.NotFound("event type", id.Hex())
	}
	delete(r.s.eventTypes, id)
	return nil
}

// ---------------------------------------------------------------------------
// Ledger

type transactionRepo struct{ s *Store }

var _ repositories.PointTransactionRepository = (*transactionRepo)(nil)

func (r *transactionRepo) Create(ctx context.Context, transaction *models.PointTransaction) error {
	defer r.s.lock(ctx)()
	if transaction.ID.IsZero() {
		transaction.ID = primitive.NewObjectID()
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	r.s.transactions = append(r.s.transactions, *transaction)
	return nil
}

// FindByUserID returns ledger entries newest first (reverse insertion order).
func (r *transactionRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PointTransaction, error) {
	defer r.s.lock(ctx)()
	transactions := []*models.PointTransaction{}
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		if r.s.transactions[i].UserID == userID {
			t := r.s.transactions[i]
			transactions = append(transactions, &t)
		}
	}
	return transactions, nil
}

func (r *transactionRepo) SumByUserID(ctx context.Context, userID primitive.ObjectID) (int, error) {
	defer r.s.lock(ctx)()
	total := 0
	for _, transaction := range r.s.transactions {
		if transaction.UserID == userID {
			total += transaction.Points
		}
	}
	return total, nil
}

func (r *transactionRepo) CountByUserAndTypeSince(ctx context.Context, userID, eventTypeID primitive.ObjectID, since time.Time) (int64, error) {
	defer r.s.lock(ctx)()
	var count int64
	for _, transaction := range r.s.transactions {
		if transaction.UserID != userID || transaction.EventTypeID == nil {
			continue
		}
		if *transaction.EventTypeID == eventTypeID && !transaction.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Prizes

type prizeRepo struct{ s *Store }

var _ repositories.PrizeRepository = (*prizeRepo)(nil)

func (r *prizeRepo) Create(ctx context.Context, prize *models.Prize) error {
	defer r.s.lock(ctx)()
	if prize.ID.IsZero() {
		prize.ID = primitive.NewObjectID()
	}
	prize.CreatedAt = time.Now()
	prize.UpdatedAt = prize.CreatedAt
	r.s.prizes[prize.ID] = *prize
	return nil
}

func (r *prizeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	defer r.s.lock(ctx)()
	prize, ok := r.s.prizes[id]
	if !ok {
		return nil, apperr.NotFound("prize", id.Hex())
	}
	return &prize, nil
}

func (r *prizeRepo) FindAll(ctx context.Context) ([]*models.Prize, error) {
	defer r.s.lock(ctx)()
	prizes := make([]*models.Prize, 0, len(r.s.prizes))
	for _, prize := range r.s.prizes {
		p := prize
		prizes = append(prizes, &p)
	}
	sort.Slice(prizes, func(i, j int) bool {
		if prizes[i].PointsCost != prizes[j].PointsCost {
			return prizes[i].PointsCost < prizes[j].PointsCost
		}
		return prizes[i].ID.Hex() < prizes[j].ID.Hex()
	})
	return prizes, nil
}

func (r *prizeRepo) Update(ctx context.Context, prize *models.Prize) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.prizes[prize.ID]; !ok {
		return apperr.NotFound("prize", prize.ID.Hex())
	}
	prize.UpdatedAt = time.Now()
	r.s.prizes[prize.ID] = *prize
	return nil
}

func (r *prizeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.prizes[id]; !ok {
		return apperr.NotFound("prize", id.Hex())
	}
	delete(r.s.prizes, id)
	return nil
}

func (r *prizeRepo) DecrementQuantity(ctx context.Context, id primitive.ObjectID) error {
	defer r.s.lock(ctx)()
	prize, ok := r.s.prizes[id]
	if !ok || !prize.Active || prize.QuantityAvailable <= 0 {
		return fmt.Errorf("prize %s: %w", id.Hex(), apperr.ErrOutOfStock)
	}
	prize.QuantityAvailable--
	prize.UpdatedAt = time.Now()
	r.s.prizes[id] = prize
	return nil
}

// ---------------------------------------------------------------------------
// Redemptions

type redemptionRepo struct{ s *Store }

var _ repositories.RedemptionRepository = (*redemptionRepo)(nil)

func (r *redemptionRepo) Create(ctx context.Context, redemption *models.Redemption) error {
	defer r.s.lock(ctx)()
	if redemption.IdempotencyKey != "" {
		for _, existing := range r.s.redemptions {
			if existing.IdempotencyKey == redemption.IdempotencyKey {
				return fmt.Errorf("redemption key %q: %w", redemption.IdempotencyKey, apperr.ErrConflict)
			}
		}
	}
	if redemption.ID.IsZero() {
		redemption.ID = primitive.NewObjectID()
	}
	if redemption.CreatedAt.IsZero() {
		redemption.CreatedAt = time.Now()
	}
	r.s.redemptions = append(r.s.redemptions, *redemption)
	return nil
}

func (r *redemptionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Redemption, error) {
	defer r.s.lock(ctx)()
	for _, redemption := range r.s.redemptions {
		if redemption.ID == id {
			red := redemption
			return &red, nil
		}
	}
	return nil, apperr.NotFound("redemption", id.Hex())
}

func (r *redemptionRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Redemption, error) {
	defer r.s.lock(ctx)()
	redemptions := []*models.Redemption{}
	for i := len(r.s.redemptions) - 1; i >= 0; i-- {
		if r.s.redemptions[i].UserID == userID {
			red := r.s.redemptions[i]
			redemptions = append(redemptions, &red)
		}
	}
	return redemptions, nil
}

func (r *redemptionRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.Redemption, error) {
	defer r.s.lock(ctx)()
	for _, redemption := range r.s.redemptions {
		if redemption.IdempotencyKey == key {
			red := redemption
			return &red, nil
		}
	}
	return nil, apperr.NotFound("redemption", key)
}
