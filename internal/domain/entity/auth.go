package entity

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthData is what login and register return. Tokens may also be sent at
// the top level of the response.
type AuthData struct {
	User *User `json:"user,omitempty"`
	TokenPair
}

type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *AuthData `json:"data,omitempty"`
	User    *User     `json:"user,omitempty"`
	TokenPair
}

// Tokens returns the pair wherever the server put it.
func (r *AuthResponse) Tokens() TokenPair {
	if r.TokenPair.Complete() {
		return r.TokenPair
	}
	if r.Data != nil {
		return r.Data.TokenPair
	}
	return TokenPair{}
}

// Account returns the user wherever the server put it.
func (r *AuthResponse) Account() *User {
	if r.Data != nil && r.Data.User != nil {
		return r.Data.User
	}
	return r.User
}

// Session is the gateway view of the current login.
type Session struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}
