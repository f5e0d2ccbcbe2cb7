package model

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateDetailsRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
}

type AuthData struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	Data    AuthData `json:"data"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=128"`
	Role     *string `json:"role"`
}
