package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rating is the qualitative grade a reviewer gives a movie.  Each rating
// maps to an integer score between 1 and 5.
type Rating string

const (
	VeryBad  Rating = "VERY_BAD"
	Bad      Rating = "BAD"
	Average  Rating = "AVERAGE"
	Good     Rating = "GOOD"
	VeryGood Rating = "VERY_GOOD"
)

var ratingScores = map[Rating]int{
	VeryBad:  1,
	Bad:      2,
	Average:  3,
	Good:     4,
	VeryGood: 5,
}

// Score returns the numeric score of r, or 0 for an unknown rating.
func (r Rating) Score() int { return ratingScores[r] }

// Valid reports whether r is one of the five known ratings.
func (r Rating) Valid() bool {
	_, ok := ratingScores[r]
	return ok
}

// ParseRating accepts the rating names case-insensitively.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown rating %q", s)
	}
	return r, nil
}

// RatingFromScore is the inverse of Score.
func RatingFromScore(score int) (Rating, bool) {
	for r, s := range ratingScores {
		if s == score {
			return r, true
		}
	}
	return "", false
}

// Review mirrors the `reviews` table.  At most one review exists per
// (MovieID, UserEmail); the table carries a unique key on the pair.
type Review struct {
	ID        uint64    `db:"id"`         // reviews.id
	MovieID   uint64    `db:"movie_id"`   // reviews.movie_id
	UserEmail string    `db:"user_email"` // reviews.user_email, stored trimmed and lower-cased
	Score     int       `db:"score"`      // reviews.score (1..5)
	CreatedAt time.Time `db:"created_at"` // reviews.created_at
}

// Rating converts the stored score back into its rating name.
func (r Review) Rating() Rating {
	rt, _ := RatingFromScore(r.Score)
	return rt
}

// ReviewStats aggregates the scores of all reviews for one movie.
type ReviewStats struct {
	Count    int `db:"review_count"`
	ScoreSum int `db:"score_sum"`
}

// Average returns the mean score rounded to two decimals, or zero when
// there are no reviews.
func (s ReviewStats) Average() decimal.Decimal {
	if s.Count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.ScoreSum)).
		DivRound(decimal.NewFromInt(int64(s.Count)), 2)
}
