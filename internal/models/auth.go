package models

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token plus the authenticated profile.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
