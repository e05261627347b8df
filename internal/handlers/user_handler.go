package handlers

import (
	"net/http"

	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler handles roster HTTP requests
type UserHandler struct {
	userService   *services.UserService
	ledgerService *services.LedgerService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, ledgerService *services.LedgerService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	id, ok := principalID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByID handles GET /users/:id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetBalance handles GET /users/:id/balance
func (h *UserHandler) GetBalance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	balance, err := h.ledgerService.GetBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": id.Hex(), "balance": balance})
}

// GetAllUsers handles GET /users (admin)
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	users, err := h.userService.GetAllUsers(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /users (admin)
func (h *UserHandler) CreateUser(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), actorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /users/:id (admin)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), actorID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id (admin)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
