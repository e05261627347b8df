package handlers

import (
	"net/http"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/metrics"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionHandler handles prize redemption HTTP requests
type RedemptionHandler struct {
	redemptionService *services.RedemptionService
}

// NewRedemptionHandler creates a new RedemptionHandler
func NewRedemptionHandler(redemptionService *services.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptionService: redemptionService}
}

// Redeem handles POST /redemptions. Callers may supply an Idempotency-Key
// header; retries with the same key return the original redemption.
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}

	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prizeID, err := primitive.ObjectIDFromHex(req.PrizeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prizeId format"})
		return
	}

	redemption, err := h.redemptionService.Redeem(c.Request.Context(), userID, prizeID, c.GetHeader("Idempotency-Key"))
	if err != nil {
		metrics.ObserveRedemption(redemptionOutcome(err))
		respondError(c, err)
		return
	}
	metrics.ObserveRedemption("completed")

	c.JSON(http.StatusCreated, redemption)
}

// GetMyRedemptions handles GET /users/me/redemptions
func (h *RedemptionHandler) GetMyRedemptions(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}
	redemptions, err := h.redemptionService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, redemptions)
}

func redemptionOutcome(err error) string {
	switch {
	case apperr.IsOutOfStock(err):
		return "out_of_stock"
	case apperr.IsInsufficientPoints(err):
		return "insufficient_points"
	case apperr.IsConflict(err):
		return "conflict"
	case apperr.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
