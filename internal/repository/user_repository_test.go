package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestUserRepoCreateNormalizesName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, password_hash, roles) VALUES (?,?,?)")).
		WithArgs("admin", "hash", "ADMIN,USER").
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := repo.Create(context.Background(), " Admin ", "hash", []string{"ADMIN", "USER"})
	if err != nil || id != 3 {
		t.Fatalf("expected id 3, got %d (%v)", id, err)
	}
}

func TestUserRepoCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'admin'"})

	if _, err := repo.Create(context.Background(), "admin", "hash", nil); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserRepoGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)
	cols := []string{"id", "username", "password_hash", "roles", "is_active", "created_at"}

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "user", "hash", "USER", true, time.Now()))

	u, err := repo.GetByUsername(context.Background(), "USER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "user" || !u.IsActive || len(u.RoleList()) != 1 {
		t.Fatalf("unexpected user %+v", u)
	}

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(cols))
	if _, err := repo.GetByUsername(context.Background(), "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
