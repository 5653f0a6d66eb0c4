package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/omdb"
)

func newMovieService() *MovieService {
	meta := fakeMetadata{byID: map[string]omdb.Metadata{
		"tt2820852": {
			Title:       "Furious 7",
			ReleaseDate: "03 Apr 2015",
			Runtime:     "137 min",
			Plot:        "Deckard Shaw seeks revenge.",
			IMDbRating:  decimal.RequireFromString("7.1"),
		},
	}}
	return NewMovieService(newFakeMovies(fastAndFurious, furious7), meta, quietLogger())
}

func TestMovieGetByIDUnknown(t *testing.T) {
	_, err := newMovieService().GetByID(context.Background(), 42)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != KindMovie || nf.ID != 42 {
		t.Fatalf("expected movie NotFoundError, got %v", err)
	}
}

func TestMovieGetDetails(t *testing.T) {
	d, err := newMovieService().GetDetails(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MovieID != 7 || d.IMDbID != "tt2820852" || d.Runtime != "137 min" || d.Description == "" {
		t.Fatalf("unexpected details %+v", d)
	}
	if !d.IMDbRating.Equal(decimal.RequireFromString("7.1")) {
		t.Fatalf("expected rating 7.1, got %s", d.IMDbRating)
	}
}

func TestMovieGetDetailsUnavailable(t *testing.T) {
	_, err := newMovieService().GetDetails(context.Background(), 1)
	var du *DetailsUnavailableError
	if !errors.As(err, &du) || du.ExternalID != "tt0232500" {
		t.Fatalf("expected DetailsUnavailableError, got %v", err)
	}
	if !errors.Is(err, omdb.ErrUnavailable) {
		t.Fatal("expected the lookup error to be wrapped")
	}
}

func TestMovieGetDetailsUnknownMovie(t *testing.T) {
	_, err := newMovieService().GetDetails(context.Background(), 3)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMovieListPaged(t *testing.T) {
	svc := newMovieService()

	all, total, err := svc.List(context.Background(), nil)
	if err != nil || len(all) != 2 || total != 2 {
		t.Fatalf("unexpected full listing: %v %d %v", all, total, err)
	}

	page, total, err := svc.List(context.Background(), &model.PageRequest{PageNo: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(page) != 1 || page[0].ID != 7 {
		t.Fatalf("unexpected page %v (total %d)", page, total)
	}

	if _, _, err := svc.List(context.Background(), &model.PageRequest{PageNo: -1}); err == nil {
		t.Fatal("expected negative page to be rejected")
	}
}
