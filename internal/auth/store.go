package auth

import (
	"context"
	"errors"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/repository"
	"github.com/iliyamo/cinema-showtime-service/internal/utils"
)

// UserStore is the part of the user repository the provider needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// StoreProvider authenticates against the users table.
type StoreProvider struct {
	users UserStore
}

func NewStoreProvider(users UserStore) *StoreProvider {
	return &StoreProvider{users: users}
}

func (p *StoreProvider) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	u, err := p.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Name: u.Username, Roles: u.RoleList()}, nil
}
