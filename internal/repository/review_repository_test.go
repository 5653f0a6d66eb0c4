package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

func TestReviewRepoCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews (movie_id, user_email, score)")).
		WithArgs(uint64(1), "john@doe.com", 4).
		WillReturnResult(sqlmock.NewResult(12, 1))

	rv := &model.Review{MovieID: 1, UserEmail: "john@doe.com", Score: 4}
	if err := repo.Create(context.Background(), rv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rv.ID != 12 {
		t.Fatalf("expected id 12, got %d", rv.ID)
	}
	if rv.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
}

func TestReviewRepoCreateConflicts(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"unique key", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}},
		{"concurrent insert deadlock", &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewReviewRepo(db)

			mock.ExpectExec("INSERT INTO reviews").
				WithArgs(uint64(1), "john@doe.com", 2).
				WillReturnError(tc.err)

			err := repo.Create(context.Background(), &model.Review{MovieID: 1, UserEmail: "john@doe.com", Score: 2})
			if !errors.Is(err, ErrDuplicateReview) {
				t.Fatalf("expected ErrDuplicateReview, got %v", err)
			}
		})
	}
}

func TestReviewRepoCreateWrapsOtherErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepo(db)

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	err := repo.Create(context.Background(), &model.Review{MovieID: 9, UserEmail: "john@doe.com", Score: 2})
	if err == nil || errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected a plain insert error, got %v", err)
	}
}

func TestReviewRepoStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) AS review_count")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"review_count", "score_sum"}).AddRow(2, 9))

	s, err := repo.StatsByMovie(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count != 2 || s.Average().StringFixed(2) != "4.50" {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestReviewRepoDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = ?")).
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 8); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
