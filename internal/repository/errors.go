// Package repository holds the MySQL-backed stores.  Each store returns the
// sentinel errors below so that the service layer can tell a missing row or
// a uniqueness violation apart from an infrastructure failure.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrDuplicateReview is returned when the (movie, email) pair already
	// has a review.
	ErrDuplicateReview = errors.New("review already exists")
	// ErrUsernameExists is returned when inserting a user whose name is taken.
	ErrUsernameExists = errors.New("username already exists")
)

const (
	mysqlDuplicateEntry = 1062 // ER_DUP_ENTRY
	mysqlLockDeadlock   = 1213 // ER_LOCK_DEADLOCK
)

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// isDeadlock reports whether InnoDB rolled the statement back to break a
// lock cycle.  For a single-row insert into a uniquely keyed table that only
// happens when another writer is inserting the same key.
func isDeadlock(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlLockDeadlock
}
