package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash string, role model.Role, clientID *int64) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByClient(ctx context.Context, clientID int64) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
}
