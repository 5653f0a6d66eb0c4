package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/omdb"
	"github.com/iliyamo/cinema-showtime-service/internal/queue"
	"github.com/iliyamo/cinema-showtime-service/internal/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeMovies struct {
	mu     sync.RWMutex
	movies map[uint64]model.Movie
}

func newFakeMovies(movies ...model.Movie) *fakeMovies {
	f := &fakeMovies{movies: map[uint64]model.Movie{}}
	for _, m := range movies {
		f.movies[m.ID] = m
	}
	return f
}

func (f *fakeMovies) GetByID(_ context.Context, id uint64) (model.Movie, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	m, ok := f.movies[id]
	if !ok {
		return model.Movie{}, repository.ErrMovieNotFound
	}
	return m, nil
}

func (f *fakeMovies) List(_ context.Context, page *model.PageRequest) ([]model.Movie, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if page == nil {
		return out, nil
	}
	lo := min(page.Offset(), len(out))
	hi := min(lo+page.PageSize, len(out))
	return out[lo:hi], nil
}

func (f *fakeMovies) Count(context.Context) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.movies), nil
}

type fakeReviews struct {
	mu      sync.Mutex
	nextID  uint64
	reviews []model.Review
}

func (f *fakeReviews) ListByMovie(_ context.Context, movieID uint64, page model.PageRequest) ([]model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.Review
	for _, r := range f.reviews {
		if r.MovieID == movieID {
			all = append(all, r)
		}
	}
	lo := min(page.Offset(), len(all))
	hi := min(lo+page.PageSize, len(all))
	return append([]model.Review{}, all[lo:hi]...), nil
}

func (f *fakeReviews) StatsByMovie(_ context.Context, movieID uint64) (model.ReviewStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s model.ReviewStats
	for _, r := range f.reviews {
		if r.MovieID == movieID {
			s.Count++
			s.ScoreSum += r.Score
		}
	}
	return s, nil
}

func (f *fakeReviews) Create(_ context.Context, rv *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.MovieID == rv.MovieID && r.UserEmail == rv.UserEmail {
			return repository.ErrDuplicateReview
		}
	}
	f.nextID++
	rv.ID = f.nextID
	f.reviews = append(f.reviews, *rv)
	return nil
}

func (f *fakeReviews) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.reviews {
		if r.ID == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return repository.ErrReviewNotFound
}

func (f *fakeReviews) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reviews)
}

type fakeShowtimes struct {
	mu        sync.Mutex
	nextID    uint64
	movies    *fakeMovies
	showtimes map[uint64]model.Showtime
}

func newFakeShowtimes(movies *fakeMovies) *fakeShowtimes {
	return &fakeShowtimes{movies: movies, showtimes: map[uint64]model.Showtime{}}
}

func (f *fakeShowtimes) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	f.mu.Lock()
	s, ok := f.showtimes[id]
	f.mu.Unlock()
	if !ok {
		return model.Showtime{}, repository.ErrShowtimeNotFound
	}
	m, _ := f.movies.GetByID(ctx, s.MovieID)
	s.MovieTitle = m.Title
	return s, nil
}

func (f *fakeShowtimes) ListByMovie(_ context.Context, movieID uint64, from model.Date, to *model.Date) ([]model.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Showtime{}
	for _, s := range f.showtimes {
		if s.MovieID != movieID || s.ShowDate.Before(from) {
			continue
		}
		if to != nil && s.ShowDate.After(*to) {
			continue
		}
		out = append(out, s)
	}
	// deliberately unordered: the service must sort
	return out, nil
}

func (f *fakeShowtimes) Create(_ context.Context, s *model.Showtime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	f.showtimes[s.ID] = *s
	return nil
}

func (f *fakeShowtimes) Update(_ context.Context, s *model.Showtime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.showtimes[s.ID]; !ok {
		return repository.ErrShowtimeNotFound
	}
	f.showtimes[s.ID] = *s
	return nil
}

func (f *fakeShowtimes) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.showtimes[id]; !ok {
		return repository.ErrShowtimeNotFound
	}
	delete(f.showtimes, id)
	return nil
}

type fakeMetadata struct {
	byID map[string]omdb.Metadata
}

func (f fakeMetadata) Lookup(_ context.Context, imdbID string) (omdb.Metadata, error) {
	md, ok := f.byID[imdbID]
	if !ok {
		return omdb.Metadata{}, omdb.ErrUnavailable
	}
	return md, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

var errBrokerDown = errors.New("broker down")

var (
	fastAndFurious = model.Movie{ID: 1, Title: "The Fast and the Furious", IMDbID: "tt0232500"}
	furious7       = model.Movie{ID: 7, Title: "Furious 7", IMDbID: "tt2820852"}
)
