package model

import "github.com/shopspring/decimal"

// Movie mirrors a row of the `movies` table.  The catalog is read-only for
// the API; rows are created by the migrate command's seed.
type Movie struct {
	ID     uint64 `db:"id"`      // movies.id
	Title  string `db:"title"`   // movies.title
	IMDbID string `db:"imdb_id"` // movies.imdb_id, the external identifier used for OMDb lookups
}

// MovieDetails is a catalog movie enriched with metadata fetched from the
// external film database.
type MovieDetails struct {
	MovieID     uint64
	Title       string
	Description string
	Runtime     string
	ReleaseDate string
	IMDbID      string
	IMDbRating  decimal.Decimal
}

// PageRequest selects a zero-based page of a listing.
type PageRequest struct {
	PageNo   int
	PageSize int
}

// Offset returns the number of rows to skip for the page.
func (p PageRequest) Offset() int { return p.PageNo * p.PageSize }

// TotalPages returns how many pages of PageSize are needed for total rows.
func (p PageRequest) TotalPages(total int) int {
	if p.PageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
