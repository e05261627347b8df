package handlers

import (
	"net/http"

	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RankingHandler handles leaderboard HTTP requests
type RankingHandler struct {
	rankingService *services.RankingService
}

// NewRankingHandler creates a new RankingHandler
func NewRankingHandler(rankingService *services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// GetRanking handles GET /ranking
func (h *RankingHandler) GetRanking(c *gin.Context) {
	ranked, err := h.rankingService.ListRanked(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ranked)
}
