package service

import "fmt"

// Entity kinds reported by NotFoundError.
const (
	KindMovie    = "movie"
	KindShowtime = "showtime"
	KindReview   = "review"
)

// NotFoundError reports a missing movie, showtime or review.
type NotFoundError struct {
	Kind string
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s with id=%d exists", e.Kind, e.ID)
}

// ConflictError reports a second review of the same movie by one reviewer.
type ConflictError struct {
	MovieID uint64
	Email   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("review for movie with id=%d from user=%s already exists", e.MovieID, e.Email)
}

// InvalidInputError reports a field that passed request decoding but breaks
// a domain rule.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DetailsUnavailableError reports that the metadata lookup for a movie
// failed.  Err is the underlying lookup error.
type DetailsUnavailableError struct {
	ExternalID string
	Err        error
}

func (e *DetailsUnavailableError) Error() string {
	return fmt.Sprintf("details of movie with imdbId=%s are not available", e.ExternalID)
}

func (e *DetailsUnavailableError) Unwrap() error { return e.Err }
