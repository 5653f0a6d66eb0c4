package model

import (
	"strings"
	"time"
)

// User represents an account row in the `users` table.  It is only used
// when credentials are served from the database instead of the built-in
// account list.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	Roles        – comma separated role names (e.g. "USER,ADMIN").
//	IsActive     – whether the account may authenticate.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `db:"id"`            // users.id
	Username     string    `db:"username"`      // users.username
	PasswordHash string    `db:"password_hash"` // users.password_hash
	Roles        string    `db:"roles"`         // users.roles
	IsActive     bool      `db:"is_active"`     // users.is_active
	CreatedAt    time.Time `db:"created_at"`    // users.created_at
}

// RoleList splits Roles into trimmed, upper-cased names.
func (u User) RoleList() []string {
	var out []string
	for _, r := range strings.Split(u.Roles, ",") {
		if r = strings.ToUpper(strings.TrimSpace(r)); r != "" {
			out = append(out, r)
		}
	}
	return out
}
