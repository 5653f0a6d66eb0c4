// Showtime persistence.  Reads join the movie title so callers can render
// a showtime without a second lookup.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

const showtimeSelect = `SELECT s.id, s.movie_id, m.title AS movie_title, s.show_date, s.show_time,
		s.price_amount, s.price_currency
	FROM showtimes s
	JOIN movies m ON m.id = s.movie_id`

// ShowtimeRepo manages persistence for showtimes.
type ShowtimeRepo struct {
	db *sqlx.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sqlx.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// GetByID returns ErrShowtimeNotFound when no row matches.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	var s model.Showtime
	err := r.db.GetContext(ctx, &s, showtimeSelect+` WHERE s.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	if err != nil {
		return model.Showtime{}, fmt.Errorf("get showtime %d: %w", id, err)
	}
	return s, nil
}

// ListByMovie returns the showtimes of a movie dated on or after from and,
// when to is given, on or before to.  Rows are ordered by date, time, id.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64, from model.Date, to *model.Date) ([]model.Showtime, error) {
	q := showtimeSelect + ` WHERE s.movie_id = ? AND s.show_date >= ?`
	args := []any{movieID, from}
	if to != nil {
		q += ` AND s.show_date <= ?`
		args = append(args, *to)
	}
	q += ` ORDER BY s.show_date, s.show_time, s.id`

	out := []model.Showtime{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list showtimes of movie %d: %w", movieID, err)
	}
	return out, nil
}

// Create inserts a showtime and assigns the generated ID back to s.
func (r *ShowtimeRepo) Create(ctx context.Context, s *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, show_date, show_time, price_amount, price_currency)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.ShowDate, s.ShowTime, s.PriceAmount, s.PriceCurrency)
	if err != nil {
		return fmt.Errorf("insert showtime: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update replaces date, time and price.  The movie cannot be changed.
// The DSN sets clientFoundRows, so zero affected rows means the id does
// not exist.
func (r *ShowtimeRepo) Update(ctx context.Context, s *model.Showtime) error {
	const q = `UPDATE showtimes SET show_date = ?, show_time = ?, price_amount = ?, price_currency = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.ShowDate, s.ShowTime, s.PriceAmount, s.PriceCurrency, s.ID)
	if err != nil {
		return fmt.Errorf("update showtime %d: %w", s.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

// Delete removes a showtime by id.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete showtime %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}
