package services

import (
	"context"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventTypeService manages the catalog of point-earning activities.
type EventTypeService struct {
	users      repositories.UserRepository
	eventTypes repositories.EventTypeRepository
}

// NewEventTypeService creates a new EventTypeService
func NewEventTypeService(users repositories.UserRepository, eventTypes repositories.EventTypeRepository) *EventTypeService {
	return &EventTypeService{
		users:      users,
		eventTypes: eventTypes,
	}
}

// ListEventTypes returns every event type, including disabled ones.
func (s *EventTypeService) ListEventTypes(ctx context.Context) ([]*models.EventType, error) {
	return s.eventTypes.FindAll(ctx)
}

// ListActive returns event types that may still generate transactions.
func (s *EventTypeService) ListActive(ctx context.Context) ([]*models.EventType, error) {
	return s.eventTypes.FindActive(ctx)
}

// GetEventType returns one event type by ID.
func (s *EventTypeService) GetEventType(ctx context.Context, id primitive.ObjectID) (*models.EventType, error) {
	return s.eventTypes.FindByID(ctx, id)
}

// CreateEventType adds a new point-earning category.
func (s *EventTypeService) CreateEventType(ctx context.Context, actorID primitive.ObjectID, in *models.EventTypeInput) (*models.EventType, error) {
	if err := requireAdmin(ctx, s.users, actorID, "createEventType"); err != nil {
		return nil, err
	}
	if err := validateEventTypeInput(in); err != nil {
		return nil, err
	}
	if _, err := s.eventTypes.FindByKey(ctx, in.Key); err == nil {
		return nil, apperr.Invalid("key", "event type key already in use")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	eventType := &models.EventType{
		Key:       in.Key,
		Title:     in.Title,
		Points:    in.Points,
		Active:    in.Active,
		MaxPerDay: in.MaxPerDay,
	}
	if err := s.eventTypes.Create(ctx, eventType); err != nil {
		return nil, err
	}
	return eventType, nil
}

// UpdateEventType rewrites an event type. Existing ledger entries keep the
// points they were created with; only future awards see the new value.
func (s *EventTypeService) UpdateEventType(ctx context.Context, actorID, id primitive.ObjectID, in *models.EventTypeInput) (*models.EventType, error) {
	if err := requireAdmin(ctx, s.users, actorID, "updateEventType"); err != nil {
		return nil, err
	}
	if err := validateEventTypeInput(in); err != nil {
		return nil, err
	}
	eventType, err := s.eventTypes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	eventType.Key = in.Key
	eventType.Title = in.Title
	eventType.Points = in.Points
	eventType.Active = in.Active
	eventType.MaxPerDay = in.MaxPerDay
	if err := s.eventTypes.Update(ctx, eventType); err != nil {
		return nil, err
	}
	return eventType, nil
}

// DeleteEventType removes an event type. Ledger entries referencing it stay
// in place; the ledger is append-only.
func (s *EventTypeService) DeleteEventType(ctx context.Context, actorID, id primitive.ObjectID) error {
	if err := requireAdmin(ctx, s.users, actorID, "deleteEventType"); err != nil {
		return err
	}
	return s.eventTypes.Delete(ctx, id)
}

func validateEventTypeInput(in *models.EventTypeInput) error {
	if in.Points == 0 {
		return apperr.Invalid("points", "must be non-zero")
	}
	if in.MaxPerDay < 0 {
		return apperr.Invalid("maxPerDay", "must not be negative")
	}
	return nil
}
