package models

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed JWT and the operator it belongs to
type LoginResponse struct {
	Token string     `json:"token"`
	User  *AdminUser `json:"user"`
}

// CreateAdminRequest defines the structure for admin creation requests
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}
