package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// SeedMovie is a catalog entry inserted by Seed.
type SeedMovie struct {
	Title  string
	IMDbID string
}

// DemoCatalog is the catalog the service ships with.
var DemoCatalog = []SeedMovie{
	{Title: "The Fast and the Furious", IMDbID: "tt0232500"},
	{Title: "2 Fast 2 Furious", IMDbID: "tt0322259"},
	{Title: "The Fast and the Furious: Tokyo Drift", IMDbID: "tt0463985"},
	{Title: "Fast & Furious", IMDbID: "tt1013752"},
	{Title: "Fast Five", IMDbID: "tt1596343"},
	{Title: "Fast & Furious 6", IMDbID: "tt1905041"},
	{Title: "Furious 7", IMDbID: "tt2820852"},
	{Title: "The Fate of the Furious", IMDbID: "tt4630562"},
}

// Statements splits the embedded schema into individual statements.  The
// schema contains no procedures, so a plain split on ';' is sufficient.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(schema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Migrate applies every schema statement.  All statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}

// Seed inserts the given movies, skipping any whose IMDb id already exists.
// It returns the number of rows inserted.
func Seed(ctx context.Context, db *sqlx.DB, movies []SeedMovie) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, m := range movies {
		res, err := tx.ExecContext(ctx,
			"INSERT IGNORE INTO movies (title, imdb_id) VALUES (?, ?)", m.Title, m.IMDbID)
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", m.IMDbID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
