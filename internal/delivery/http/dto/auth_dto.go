package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a partial profile update; absent fields are
// left unchanged.
type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
}

type UserInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

type RegisterResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

// error response
type ErrorResponse struct {
	Error string `json:"error"`
}
