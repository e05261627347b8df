package services

import (
	"context"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogService handles prize catalog management. Reads are open to every
// authenticated user; mutations are admin operations.
type CatalogService struct {
	users  repositories.UserRepository
	prizes repositories.PrizeRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(users repositories.UserRepository, prizes repositories.PrizeRepository) *CatalogService {
	return &CatalogService{
		users:  users,
		prizes: prizes,
	}
}

// ListPrizes returns the full catalog. Out-of-stock prizes are included so
// the storefront can show them as unavailable.
func (s *CatalogService) ListPrizes(ctx context.Context) ([]*models.Prize, error) {
	return s.prizes.FindAll(ctx)
}

// GetPrize returns one prize by ID.
func (s *CatalogService) GetPrize(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	return s.prizes.FindByID(ctx, id)
}

// CreatePrize adds a prize to the catalog.
func (s *CatalogService) CreatePrize(ctx context.Context, actorID primitive.ObjectID, in *models.PrizeInput) (*models.Prize, error) {
	if err := requireAdmin(ctx, s.users, actorID, "createPrize"); err != nil {
		return nil, err
	}
	if err := validatePrizeInput(in); err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	prize := &models.Prize{
		Name:              in.Name,
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		PointsCost:        in.PointsCost,
		QuantityAvailable: in.QuantityAvailable,
		Active:            active,
	}
	if err := s.prizes.Create(ctx, prize); err != nil {
		return nil, err
	}
	return prize, nil
}

// UpdatePrize rewrites a prize's catalog fields. Setting the quantity to zero
// keeps the prize listed; it only becomes unavailable for redemption.
func (s *CatalogService) UpdatePrize(ctx context.Context, actorID, id primitive.ObjectID, in *models.PrizeInput) (*models.Prize, error) {
	if err := requireAdmin(ctx, s.users, actorID, "updatePrize"); err != nil {
		return nil, err
	}
	if err := validatePrizeInput(in); err != nil {
		return nil, err
	}

	prize, err := s.prizes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prize.Name = in.Name
	prize.Description = in.Description
	prize.ImageURL = in.ImageURL
	prize.PointsCost = in.PointsCost
	prize.QuantityAvailable = in.QuantityAvailable
	if in.Active != nil {
		prize.Active = *in.Active
	}
	if err := s.prizes.Update(ctx, prize); err != nil {
		return nil, err
	}
	return prize, nil
}

// DeletePrize removes a prize from the catalog entirely.
func (s *CatalogService) DeletePrize(ctx context.Context, actorID, id primitive.ObjectID) error {
	if err := requireAdmin(ctx, s.users, actorID, "deletePrize"); err != nil {
		return err
	}
	return s.prizes.Delete(ctx, id)
}

func validatePrizeInput(in *models.PrizeInput) error {
	if in.PointsCost <= 0 {
		return apperr.Invalid("pointsCost", "must be a positive integer")
	}
	if in.QuantityAvailable < 0 {
		return apperr.Invalid("quantityAvailable", "must not be negative")
	}
	return nil
}
