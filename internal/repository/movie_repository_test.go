package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

func TestMovieRepoGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMovieRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, imdb_id FROM movies WHERE id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "imdb_id"}).AddRow(7, "Furious 7", "tt2820852"))

	m, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "Furious 7" || m.IMDbID != "tt2820852" {
		t.Fatalf("unexpected movie %+v", m)
	}
}

func TestMovieRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMovieRepo(db)

	mock.ExpectQuery("FROM movies WHERE id").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "imdb_id"}))

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestMovieRepoListPaged(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMovieRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id LIMIT ? OFFSET ?")).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "imdb_id"}).
			AddRow(3, "The Fast and the Furious: Tokyo Drift", "tt0463985").
			AddRow(4, "Fast & Furious", "tt1013752"))

	movies, err := repo.List(context.Background(), &model.PageRequest{PageNo: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 || movies[0].ID != 3 {
		t.Fatalf("unexpected movies %+v", movies)
	}
}
