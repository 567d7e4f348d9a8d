package dto

// AuthRequest carries registration and login credentials.
type AuthRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role,omitempty"`
	ClientID *int64 `json:"client_id,omitempty"`
}

// SessionResponse describes the authenticated identity.
type SessionResponse struct {
	UserID   int64  `json:"user_id"`
	Role     string `json:"role"`
	ClientID *int64 `json:"client_id,omitempty"`
}
