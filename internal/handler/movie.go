package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/service"
)

// MovieService is the catalog as seen by the HTTP layer.
type MovieService interface {
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
	List(ctx context.Context, page *model.PageRequest) ([]model.Movie, int, error)
	GetDetails(ctx context.Context, id uint64) (model.MovieDetails, error)
}

type MovieHandler struct {
	Movies MovieService
}

func NewMovieHandler(movies MovieService) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

type movieResponse struct {
	MovieID    uint64 `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	IMDbID     string `json:"imdbId"`
}

type movieListResponse struct {
	Movies        []movieResponse `json:"movies"`
	PageNo        *int            `json:"pageNo,omitempty"`
	PageSize      *int            `json:"pageSize,omitempty"`
	TotalElements int             `json:"totalElements"`
	TotalPages    *int            `json:"totalPages,omitempty"`
}

type movieDetailsResponse struct {
	MovieID          uint64      `json:"movieId"`
	MovieTitle       string      `json:"movieTitle"`
	MovieDescription string      `json:"movieDescription"`
	Runtime          string      `json:"runtime"`
	ReleaseDate      string      `json:"releaseDate"`
	IMDbID           string      `json:"imdbId"`
	IMDbRating       json.Number `json:"imdbRating"`
}

func toMovieResponse(m model.Movie) movieResponse {
	return movieResponse{MovieID: m.ID, MovieTitle: m.Title, IMDbID: m.IMDbID}
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// List handles GET /v1/movies.  Without pageNo and pageSize the whole
// catalog is returned.
func (h *MovieHandler) List(c echo.Context) error {
	page, paged, err := queryPage(c)
	if err != nil {
		return err
	}
	var req *model.PageRequest
	if paged {
		if page.PageSize == 0 {
			page.PageSize = service.DefaultPageSize
		}
		req = &page
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	movies, total, err := h.Movies.List(ctx, req)
	if err != nil {
		return err
	}
	resp := movieListResponse{Movies: make([]movieResponse, 0, len(movies)), TotalElements: total}
	for _, m := range movies {
		resp.Movies = append(resp.Movies, toMovieResponse(m))
	}
	if req != nil {
		pages := req.TotalPages(total)
		resp.PageNo, resp.PageSize, resp.TotalPages = &req.PageNo, &req.PageSize, &pages
	}
	return c.JSON(http.StatusOK, resp)
}

// Details handles GET /v1/movies/details/:id.
func (h *MovieHandler) Details(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Movies.GetDetails(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movieDetailsResponse{
		MovieID:          d.MovieID,
		MovieTitle:       d.Title,
		MovieDescription: d.Description,
		Runtime:          d.Runtime,
		ReleaseDate:      d.ReleaseDate,
		IMDbID:           d.IMDbID,
		IMDbRating:       json.Number(d.IMDbRating.String()),
	})
}
