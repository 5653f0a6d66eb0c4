package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/cinema-showtime-service/internal/utils"
)

// Account is a built-in credential.
type Account struct {
	Username string
	Password string
	Roles    []string
}

// DefaultAccounts returns the two built-in accounts: "user" with the USER
// role and "admin" with ADMIN and USER.
func DefaultAccounts(userPassword, adminPassword string) []Account {
	return []Account{
		{Username: "user", Password: userPassword, Roles: []string{RoleUser}},
		{Username: "admin", Password: adminPassword, Roles: []string{RoleAdmin, RoleUser}},
	}
}

type staticAccount struct {
	hash  string
	roles []string
}

// StaticProvider authenticates against a fixed account list held in memory.
// Passwords are hashed once at construction and never kept in clear.
type StaticProvider struct {
	accounts map[string]staticAccount
}

func NewStaticProvider(accounts []Account, bcryptCost int) (*StaticProvider, error) {
	p := &StaticProvider{accounts: make(map[string]staticAccount, len(accounts))}
	for _, a := range accounts {
		name := strings.ToLower(strings.TrimSpace(a.Username))
		if name == "" || a.Password == "" {
			return nil, fmt.Errorf("account %q: username and password are required", a.Username)
		}
		hash, err := utils.HashPassword(a.Password, bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password of %q: %w", name, err)
		}
		p.accounts[name] = staticAccount{hash: hash, roles: a.Roles}
	}
	return p, nil
}

func (p *StaticProvider) Authenticate(_ context.Context, username, password string) (Principal, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	acc, ok := p.accounts[name]
	if !ok || !utils.VerifyPassword(acc.hash, password) {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Name: name, Roles: acc.roles}, nil
}
