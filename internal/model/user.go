package model

// User represents an operator account in the users table.
type User struct {
	ID           int64
	Name         string
	PasswordHash string `json:"-"`
}

// CreateUserRequest represents a signup request.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login request. It is usually submitted as a
// form-encoded body, but JSON is accepted too.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
