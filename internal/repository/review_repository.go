package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

// ReviewRepo manages persistence for reviews.
type ReviewRepo struct {
	db *sqlx.DB
}

// NewReviewRepo constructs a ReviewRepo with the given DB handle.
func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// ListByMovie returns one page of a movie's reviews in insertion order.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64, page model.PageRequest) ([]model.Review, error) {
	const q = `SELECT id, movie_id, user_email, score, created_at
		FROM reviews WHERE movie_id = ?
		ORDER BY id
		LIMIT ? OFFSET ?`
	reviews := []model.Review{}
	if err := r.db.SelectContext(ctx, &reviews, q, movieID, page.PageSize, page.Offset()); err != nil {
		return nil, fmt.Errorf("list reviews of movie %d: %w", movieID, err)
	}
	return reviews, nil
}

// StatsByMovie returns the review count and score sum of a movie.
func (r *ReviewRepo) StatsByMovie(ctx context.Context, movieID uint64) (model.ReviewStats, error) {
	const q = `SELECT COUNT(*) AS review_count, COALESCE(SUM(score), 0) AS score_sum
		FROM reviews WHERE movie_id = ?`
	var s model.ReviewStats
	if err := r.db.GetContext(ctx, &s, q, movieID); err != nil {
		return model.ReviewStats{}, fmt.Errorf("review stats of movie %d: %w", movieID, err)
	}
	return s, nil
}

// Create inserts a review unless the reviewer already rated the movie.  The
// uq_reviews_movie_email key decides: of two concurrent first submissions
// for the same pair one insert wins and the other gets ErrDuplicateReview.
// On success ID and CreatedAt are populated.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (movie_id, user_email, score) VALUES (?, ?, ?)`,
		rv.MovieID, rv.UserEmail, rv.Score)
	if err != nil {
		if isDuplicateKey(err) || isDeadlock(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	rv.CreatedAt = time.Now().UTC()
	return nil
}

// Delete removes a review by id.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
