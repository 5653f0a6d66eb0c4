package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/queue"
	"github.com/iliyamo/cinema-showtime-service/internal/repository"
)

// emailPattern accepts localpart@domain.tld: one "@" and a dot after it with
// text on both sides.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ReviewStore persists reviews.  Create must report an existing review for
// the same movie and email as repository.ErrDuplicateReview.
type ReviewStore interface {
	ListByMovie(ctx context.Context, movieID uint64, page model.PageRequest) ([]model.Review, error)
	StatsByMovie(ctx context.Context, movieID uint64) (model.ReviewStats, error)
	Create(ctx context.Context, r *model.Review) error
	Delete(ctx context.Context, id uint64) error
}

// ReviewPage is one page of a movie's reviews plus totals and the score
// aggregate over all of them.
type ReviewPage struct {
	MovieID       uint64
	Reviews       []model.Review
	Page          model.PageRequest
	TotalElements int
	TotalPages    int
	Stats         model.ReviewStats
}

// SubmittedReview is a stored review together with the reviewed movie's title.
type SubmittedReview struct {
	Review     model.Review
	MovieTitle string
}

type ReviewService struct {
	movies  MovieLookup
	reviews ReviewStore
	events  events
	log     *logrus.Logger
}

func NewReviewService(movies MovieLookup, reviews ReviewStore, pub EventPublisher, log *logrus.Logger) *ReviewService {
	return &ReviewService{movies: movies, reviews: reviews, events: events{pub: pub, log: log}, log: log}
}

// ListForMovie returns a page of reviews in insertion order.
func (s *ReviewService) ListForMovie(ctx context.Context, movieID uint64, page model.PageRequest) (ReviewPage, error) {
	page, err := normalizePage(page)
	if err != nil {
		return ReviewPage{}, err
	}
	if _, err := getMovie(ctx, s.movies, movieID); err != nil {
		return ReviewPage{}, err
	}
	reviews, err := s.reviews.ListByMovie(ctx, movieID, page)
	if err != nil {
		return ReviewPage{}, err
	}
	stats, err := s.reviews.StatsByMovie(ctx, movieID)
	if err != nil {
		return ReviewPage{}, err
	}
	return ReviewPage{
		MovieID:       movieID,
		Reviews:       reviews,
		Page:          page,
		TotalElements: stats.Count,
		TotalPages:    page.TotalPages(stats.Count),
		Stats:         stats,
	}, nil
}

// Submit stores a review.  The movie must exist, the email must look like
// an address, and the reviewer must not have reviewed the movie before.
// Nothing is written when any check fails.
func (s *ReviewService) Submit(ctx context.Context, movieID uint64, email string, rating model.Rating) (SubmittedReview, error) {
	movie, err := getMovie(ctx, s.movies, movieID)
	if err != nil {
		return SubmittedReview{}, err
	}
	email = NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return SubmittedReview{}, &InvalidInputError{Field: "userEmail", Reason: "must be a valid email address"}
	}
	if !rating.Valid() {
		return SubmittedReview{}, &InvalidInputError{Field: "rating", Reason: "must be one of VERY_BAD, BAD, AVERAGE, GOOD, VERY_GOOD"}
	}

	rv := model.Review{MovieID: movieID, UserEmail: email, Score: rating.Score()}
	if err := s.reviews.Create(ctx, &rv); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return SubmittedReview{}, &ConflictError{MovieID: movieID, Email: email}
		}
		return SubmittedReview{}, err
	}

	s.log.WithFields(logrus.Fields{
		"movie_id":  movieID,
		"review_id": rv.ID,
		"score":     rv.Score,
	}).Info("Review submitted")

	ev := queue.NewEvent(queue.ReviewSubmitted, auth.ActorName(ctx))
	ev.MovieID = movieID
	ev.MovieTitle = movie.Title
	ev.ReviewID = rv.ID
	ev.UserEmail = rv.UserEmail
	ev.Score = rv.Score
	s.events.emit(ctx, ev)

	return SubmittedReview{Review: rv, MovieTitle: movie.Title}, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, reviewID uint64) error {
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return &NotFoundError{Kind: KindReview, ID: reviewID}
		}
		return err
	}
	ev := queue.NewEvent(queue.ReviewDeleted, auth.ActorName(ctx))
	ev.ReviewID = reviewID
	s.events.emit(ctx, ev)
	return nil
}

// NormalizeEmail trims and lower-cases an address so that uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
