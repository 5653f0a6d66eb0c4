package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/omdb"
	"github.com/iliyamo/cinema-showtime-service/internal/repository"
)

// MovieLookup finds a single catalog movie.
type MovieLookup interface {
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
}

// MovieStore is the catalog as seen by the movie service.
type MovieStore interface {
	MovieLookup
	List(ctx context.Context, page *model.PageRequest) ([]model.Movie, error)
	Count(ctx context.Context) (int, error)
}

// MetadataSource looks up external metadata by IMDb id.
type MetadataSource interface {
	Lookup(ctx context.Context, imdbID string) (omdb.Metadata, error)
}

type MovieService struct {
	movies MovieStore
	meta   MetadataSource
	log    *logrus.Logger
}

func NewMovieService(movies MovieStore, meta MetadataSource, log *logrus.Logger) *MovieService {
	return &MovieService{movies: movies, meta: meta, log: log}
}

func (s *MovieService) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	return getMovie(ctx, s.movies, id)
}

// List returns the catalog, or one page of it, together with its size.
func (s *MovieService) List(ctx context.Context, page *model.PageRequest) ([]model.Movie, int, error) {
	if page != nil {
		p, err := normalizePage(*page)
		if err != nil {
			return nil, 0, err
		}
		page = &p
	}
	movies, err := s.movies.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	total := len(movies)
	if page != nil {
		if total, err = s.movies.Count(ctx); err != nil {
			return nil, 0, err
		}
	}
	return movies, total, nil
}

// GetDetails enriches a catalog movie with external metadata.  Any lookup
// failure is reported as DetailsUnavailableError; no partial record is
// returned.
func (s *MovieService) GetDetails(ctx context.Context, id uint64) (model.MovieDetails, error) {
	m, err := getMovie(ctx, s.movies, id)
	if err != nil {
		return model.MovieDetails{}, err
	}
	md, err := s.meta.Lookup(ctx, m.IMDbID)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"movie_id": id,
			"imdb_id":  m.IMDbID,
		}).Warn("Movie details not available")
		return model.MovieDetails{}, &DetailsUnavailableError{ExternalID: m.IMDbID, Err: err}
	}
	title := md.Title
	if title == "" {
		title = m.Title
	}
	return model.MovieDetails{
		MovieID:     m.ID,
		Title:       title,
		Description: md.Plot,
		Runtime:     md.Runtime,
		ReleaseDate: md.ReleaseDate,
		IMDbID:      m.IMDbID,
		IMDbRating:  md.IMDbRating,
	}, nil
}

// getMovie loads a movie and translates a missing row into NotFoundError.
func getMovie(ctx context.Context, movies MovieLookup, id uint64) (model.Movie, error) {
	m, err := movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return model.Movie{}, &NotFoundError{Kind: KindMovie, ID: id}
	}
	return m, err
}
