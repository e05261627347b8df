package services

import (
	"context"

	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
)

// RankingService is a read-only projection of users ordered by balance.
type RankingService struct {
	users repositories.UserRepository
}

// NewRankingService creates a new RankingService
func NewRankingService(users repositories.UserRepository) *RankingService {
	return &RankingService{users: users}
}

// ListRanked returns every user with their 1-based leaderboard position.
// Ordering comes from the repository: points descending, ties broken by
// creation order, so two queries with no mutation in between are identical.
func (s *RankingService) ListRanked(ctx context.Context) ([]*models.RankedUser, error) {
	users, err := s.users.FindAllRanked(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]*models.RankedUser, 0, len(users))
	for i, user := range users {
		ranked = append(ranked, &models.RankedUser{
			Rank:       i + 1,
			UserID:     user.ID,
			Name:       user.Name,
			Department: user.Department,
			AvatarURL:  user.AvatarURL,
			Points:     user.Points,
		})
	}
	return ranked, nil
}
