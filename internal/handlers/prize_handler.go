package handlers

import (
	"net/http"

	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// PrizeHandler handles catalog HTTP requests
type PrizeHandler struct {
	catalogService *services.CatalogService
}

// NewPrizeHandler creates a new PrizeHandler
func NewPrizeHandler(catalogService *services.CatalogService) *PrizeHandler {
	return &PrizeHandler{catalogService: catalogService}
}

// ListPrizes handles GET /prizes
func (h *PrizeHandler) ListPrizes(c *gin.Context) {
	prizes, err := h.catalogService.ListPrizes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prizes)
}

// GetPrize handles GET /prizes/:id
func (h *PrizeHandler) GetPrize(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	prize, err := h.catalogService.GetPrize(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prize)
}

// CreatePrize handles POST /prizes (admin)
func (h *PrizeHandler) CreatePrize(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	var input models.PrizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prize, err := h.catalogService.CreatePrize(c.Request.Context(), actorID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prize)
}

// UpdatePrize handles PUT /prizes/:id (admin)
func (h *PrizeHandler) UpdatePrize(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input models.PrizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prize, err := h.catalogService.UpdatePrize(c.Request.Context(), actorID, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prize)
}

// DeletePrize handles DELETE /prizes/:id (admin)
func (h *PrizeHandler) DeletePrize(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeletePrize(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prize deleted successfully"})
}
