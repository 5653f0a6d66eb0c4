package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/service"
)

// ReviewService is the review ledger as seen by the HTTP layer.
type ReviewService interface {
	ListForMovie(ctx context.Context, movieID uint64, page model.PageRequest) (service.ReviewPage, error)
	Submit(ctx context.Context, movieID uint64, email string, rating model.Rating) (service.SubmittedReview, error)
	Delete(ctx context.Context, reviewID uint64) error
}

type ReviewHandler struct {
	Reviews ReviewService
}

func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

type createReviewRequest struct {
	MovieID   uint64 `json:"movieId" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required"`
	Rating    string `json:"rating" validate:"required,oneof=VERY_BAD BAD AVERAGE GOOD VERY_GOOD"`
}

type createReviewResponse struct {
	MovieTitle string `json:"movieTitle"`
	UserEmail  string `json:"userEmail"`
	Score      int    `json:"score"`
}

type reviewEntry struct {
	ReviewID uint64 `json:"reviewId"`
	Rating   string `json:"rating"`
	Author   string `json:"author"`
}

type reviewPageResponse struct {
	MovieID       uint64        `json:"movieId"`
	Reviews       []reviewEntry `json:"reviews"`
	PageNo        int           `json:"pageNo"`
	PageSize      int           `json:"pageSize"`
	TotalElements int           `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	ReviewCount   int           `json:"reviewCount"`
	AverageScore  json.Number   `json:"averageScore"`
}

// List handles GET /v1/reviews?movieId=N[&pageNo=&pageSize=].
func (h *ReviewHandler) List(c echo.Context) error {
	movieID, err := queryID(c, "movieId")
	if err != nil {
		return err
	}
	page, _, err := queryPage(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Reviews.ListForMovie(ctx, movieID, page)
	if err != nil {
		return err
	}
	resp := reviewPageResponse{
		MovieID:       p.MovieID,
		Reviews:       make([]reviewEntry, 0, len(p.Reviews)),
		PageNo:        p.Page.PageNo,
		PageSize:      p.Page.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		ReviewCount:   p.Stats.Count,
		AverageScore:  json.Number(p.Stats.Average().StringFixed(2)),
	}
	for _, r := range p.Reviews {
		resp.Reviews = append(resp.Reviews, reviewEntry{ReviewID: r.ID, Rating: string(r.Rating()), Author: r.UserEmail})
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Reviews.Submit(ctx, req.MovieID, req.UserEmail, model.Rating(req.Rating))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createReviewResponse{
		MovieTitle: res.MovieTitle,
		UserEmail:  res.Review.UserEmail,
		Score:      res.Review.Score,
	})
}

// Delete handles DELETE /v1/reviews/:id.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
