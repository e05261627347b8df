package handlers

import (
	"net/http"

	"github.com/gamework/recognition-backend/internal/metrics"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerHandler handles point-award and transaction-history HTTP requests
type LedgerHandler struct {
	ledgerService *services.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// AddPoints handles POST /points (admin)
func (h *LedgerHandler) AddPoints(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}

	var req models.AddPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId format"})
		return
	}

	in := services.AddTransactionInput{
		UserID:      userID,
		Points:      req.Points,
		Description: req.Description,
	}
	if req.EventTypeID != "" {
		eventTypeID, err := primitive.ObjectIDFromHex(req.EventTypeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid eventTypeId format"})
			return
		}
		in.EventTypeID = &eventTypeID
	}

	transaction, balance, err := h.ledgerService.AddTransaction(c.Request.Context(), actorID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.ObservePointsAwarded(transaction.Points)

	c.JSON(http.StatusCreated, gin.H{
		"transaction": transaction,
		"balance":     balance,
	})
}

// GetMyTransactions handles GET /users/me/transactions
func (h *LedgerHandler) GetMyTransactions(c *gin.Context) {
	id, ok := principalID(c)
	if !ok {
		return
	}
	transactions, err := h.ledgerService.ListTransactions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GetUserTransactions handles GET /users/:id/transactions
func (h *LedgerHandler) GetUserTransactions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	transactions, err := h.ledgerService.ListTransactions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}
