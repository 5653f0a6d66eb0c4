package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/service"
)

// ShowtimeService is the scheduler as seen by the HTTP layer.
type ShowtimeService interface {
	FindSchedule(ctx context.Context, movieID uint64, from, to *model.Date) (service.Schedule, error)
	GetByID(ctx context.Context, id uint64) (model.Showtime, error)
	Create(ctx context.Context, movieID uint64, at model.LocalDateTime, price model.Money) (model.Showtime, error)
	Update(ctx context.Context, id uint64, at model.LocalDateTime, price model.Money) error
	Delete(ctx context.Context, id uint64) error
}

type ShowtimeHandler struct {
	Showtimes ShowtimeService
}

func NewShowtimeHandler(showtimes ShowtimeService) *ShowtimeHandler {
	return &ShowtimeHandler{Showtimes: showtimes}
}

// priceBody is a price in requests and single-showtime responses.  Pointers
// let the validator tell a missing field from a zero one.
type priceBody struct {
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Currency string           `json:"currency" validate:"required,oneof=PLN EUR"`
}

func (p priceBody) money() model.Money {
	return model.Money{Amount: *p.Amount, Currency: model.Currency(p.Currency)}
}

type createShowtimeRequest struct {
	MovieID      uint64               `json:"movieId" validate:"required"`
	ShowtimeDate *model.LocalDateTime `json:"showtimeDate" validate:"required"`
	Price        *priceBody           `json:"price" validate:"required"`
}

type updateShowtimeRequest struct {
	ShowtimeDate *model.LocalDateTime `json:"showtimeDate" validate:"required"`
	Price        *priceBody           `json:"price" validate:"required"`
}

type createShowtimeResponse struct {
	ShowtimeID uint64 `json:"showtimeId"`
}

type moneyResponse struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

type showtimeResponse struct {
	ShowtimeID   uint64              `json:"showtimeId"`
	MovieTitle   string              `json:"movieTitle"`
	ShowtimeDate model.LocalDateTime `json:"showtimeDate"`
	Price        moneyResponse       `json:"price"`
}

type hourlyResponse struct {
	ShowtimeID uint64          `json:"showtimeId"`
	Time       model.TimeOfDay `json:"time"`
	Price      string          `json:"price"`
}

type dailyResponse struct {
	Date           model.Date       `json:"date"`
	HourlySchedule []hourlyResponse `json:"hourlySchedule"`
}

type scheduleResponse struct {
	MovieID       uint64          `json:"movieId"`
	DailySchedule []dailyResponse `json:"dailySchedule"`
}

func toScheduleResponse(s service.Schedule) scheduleResponse {
	resp := scheduleResponse{MovieID: s.MovieID, DailySchedule: make([]dailyResponse, 0, len(s.Days))}
	for _, day := range s.Days {
		d := dailyResponse{Date: day.Date, HourlySchedule: make([]hourlyResponse, 0, len(day.Hours))}
		for _, h := range day.Hours {
			d.HourlySchedule = append(d.HourlySchedule, hourlyResponse{ShowtimeID: h.ShowtimeID, Time: h.Time, Price: h.Price.String()})
		}
		resp.DailySchedule = append(resp.DailySchedule, d)
	}
	return resp
}

// Schedule handles GET /v1/showtimes?movieId=N[&fromDate=&toDate=].
func (h *ShowtimeHandler) Schedule(c echo.Context) error {
	movieID, err := queryID(c, "movieId")
	if err != nil {
		return err
	}
	from, err := queryDate(c, "fromDate")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "toDate")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Showtimes.FindSchedule(ctx, movieID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toScheduleResponse(s))
}

// Get handles GET /v1/showtimes/:id.
func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, showtimeResponse{
		ShowtimeID:   st.ID,
		MovieTitle:   st.MovieTitle,
		ShowtimeDate: st.StartsAt(),
		Price: moneyResponse{
			Amount:   json.Number(st.PriceAmount.StringFixed(2)),
			Currency: string(st.PriceCurrency),
		},
	})
}

// Create handles POST /v1/showtimes.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req createShowtimeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := h.Showtimes.Create(ctx, req.MovieID, *req.ShowtimeDate, req.Price.money())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createShowtimeResponse{ShowtimeID: st.ID})
}

// Update handles PUT and PATCH /v1/showtimes/:id.  Both replace the date,
// time and price; partial bodies are rejected.
func (h *ShowtimeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateShowtimeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Showtimes.Update(ctx, id, *req.ShowtimeDate, req.Price.money()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/showtimes/:id.
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Showtimes.Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
