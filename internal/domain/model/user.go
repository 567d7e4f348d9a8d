package model

import "time"

// User represents an authenticated workflow participant.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	ClientID     *int64
	CreatedAt    time.Time
}
