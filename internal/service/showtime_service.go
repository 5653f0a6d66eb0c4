package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/queue"
	"github.com/iliyamo/cinema-showtime-service/internal/repository"
)

// ShowtimeStore persists showtimes.  GetByID, Update and Delete report a
// missing id as repository.ErrShowtimeNotFound.
type ShowtimeStore interface {
	GetByID(ctx context.Context, id uint64) (model.Showtime, error)
	ListByMovie(ctx context.Context, movieID uint64, from model.Date, to *model.Date) ([]model.Showtime, error)
	Create(ctx context.Context, s *model.Showtime) error
	Update(ctx context.Context, s *model.Showtime) error
	Delete(ctx context.Context, id uint64) error
}

// Schedule is the grouped showtime listing of one movie.
type Schedule struct {
	MovieID uint64
	Days    []model.DailySchedule
}

type ShowtimeService struct {
	movies    MovieLookup
	showtimes ShowtimeStore
	events    events
	log       *logrus.Logger
	today     func() model.Date
}

func NewShowtimeService(movies MovieLookup, showtimes ShowtimeStore, pub EventPublisher, log *logrus.Logger) *ShowtimeService {
	return &ShowtimeService{
		movies:    movies,
		showtimes: showtimes,
		events:    events{pub: pub, log: log},
		log:       log,
		today:     func() model.Date { return model.Today(time.Local) },
	}
}

// FindSchedule lists a movie's showtimes dated in [from, to], or from
// onward when to is nil.  A nil from means today.  A range with to before
// from is empty, not an error.
func (s *ShowtimeService) FindSchedule(ctx context.Context, movieID uint64, from, to *model.Date) (Schedule, error) {
	if _, err := getMovie(ctx, s.movies, movieID); err != nil {
		return Schedule{}, err
	}
	start := s.today()
	if from != nil {
		start = *from
	}
	showtimes, err := s.showtimes.ListByMovie(ctx, movieID, start, to)
	if err != nil {
		return Schedule{}, err
	}
	return Schedule{MovieID: movieID, Days: GroupSchedule(showtimes)}, nil
}

func (s *ShowtimeService) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	st, err := s.showtimes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrShowtimeNotFound) {
		return model.Showtime{}, &NotFoundError{Kind: KindShowtime, ID: id}
	}
	return st, err
}

// Create schedules a new screening.  Overlapping screenings are allowed.
func (s *ShowtimeService) Create(ctx context.Context, movieID uint64, at model.LocalDateTime, price model.Money) (model.Showtime, error) {
	movie, err := getMovie(ctx, s.movies, movieID)
	if err != nil {
		return model.Showtime{}, err
	}
	if price, err = validPrice(price); err != nil {
		return model.Showtime{}, err
	}
	st := model.Showtime{MovieID: movie.ID, MovieTitle: movie.Title}
	st.SetSchedule(at, price)
	if err := s.showtimes.Create(ctx, &st); err != nil {
		return model.Showtime{}, err
	}

	s.log.WithFields(logrus.Fields{
		"showtime_id": st.ID,
		"movie_id":    movieID,
		"starts_at":   at.String(),
	}).Info("Showtime scheduled")
	s.emit(ctx, queue.ShowtimeScheduled, st)
	return st, nil
}

// Update replaces the date, time and price of a showtime.  The movie stays.
func (s *ShowtimeService) Update(ctx context.Context, id uint64, at model.LocalDateTime, price model.Money) error {
	st, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if price, err = validPrice(price); err != nil {
		return err
	}
	st.SetSchedule(at, price)
	if err := s.showtimes.Update(ctx, &st); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return &NotFoundError{Kind: KindShowtime, ID: id}
		}
		return err
	}

	s.log.WithFields(logrus.Fields{
		"showtime_id": id,
		"starts_at":   at.String(),
	}).Info("Showtime updated")
	s.emit(ctx, queue.ShowtimeUpdated, st)
	return nil
}

// Delete removes a showtime.
func (s *ShowtimeService) Delete(ctx context.Context, id uint64) error {
	st, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.showtimes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return &NotFoundError{Kind: KindShowtime, ID: id}
		}
		return err
	}
	s.log.WithField("showtime_id", id).Info("Showtime deleted")
	s.emit(ctx, queue.ShowtimeDeleted, st)
	return nil
}

func (s *ShowtimeService) emit(ctx context.Context, eventType string, st model.Showtime) {
	ev := queue.NewEvent(eventType, auth.ActorName(ctx))
	ev.MovieID = st.MovieID
	ev.MovieTitle = st.MovieTitle
	ev.ShowtimeID = st.ID
	ev.StartsAt = st.StartsAt().String()
	ev.Price = st.Price().String()
	s.events.emit(ctx, ev)
}

func validPrice(p model.Money) (model.Money, error) {
	m, err := model.NewMoney(p.Amount, p.Currency)
	switch {
	case errors.Is(err, model.ErrNegativeAmount):
		return model.Money{}, &InvalidInputError{Field: "price.amount", Reason: "must not be negative"}
	case errors.Is(err, model.ErrUnknownCurrency):
		return model.Money{}, &InvalidInputError{Field: "price.currency", Reason: "must be PLN or EUR"}
	}
	return m, err
}
