package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
	pkgAuth "github.com/orderdesk/orderdesk/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new user and returns an auth token carrying the role.
func (u *AuthUseCase) Register(ctx context.Context, login, password string, role model.Role, clientID *int64) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" || !role.Valid() {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, login, hash, role, clientID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID, string(usr.Role))
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// Authenticate validates credentials and returns an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID, string(usr.Role))
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ParseToken extracts the session identity from a token. The role in the
// token is cross-checked against the closed set; the client binding is read
// from the user record, not the token.
func (u *AuthUseCase) ParseToken(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	userID, roleStr, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return nil, pkgAuth.ErrInvalidToken
	}
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, pkgAuth.ErrInvalidToken
	}
	if usr.Role != role {
		return nil, pkgAuth.ErrInvalidToken
	}
	return &model.Session{UserID: usr.ID, Role: usr.Role, ClientID: usr.ClientID}, nil
}
