package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest caps the password at bcrypt's 72-byte input limit.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
