package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

// MovieRepo reads the movie catalog.
type MovieRepo struct {
	db *sqlx.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sqlx.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// GetByID returns ErrMovieNotFound when no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	err := r.db.GetContext(ctx, &m, `SELECT id, title, imdb_id FROM movies WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return model.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	return m, nil
}

// List returns movies ordered by id.  A nil page returns the whole catalog.
func (r *MovieRepo) List(ctx context.Context, page *model.PageRequest) ([]model.Movie, error) {
	q := `SELECT id, title, imdb_id FROM movies ORDER BY id`
	var args []any
	if page != nil {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, page.PageSize, page.Offset())
	}
	movies := []model.Movie{}
	if err := r.db.SelectContext(ctx, &movies, q, args...); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// Count returns the size of the catalog.
func (r *MovieRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}
