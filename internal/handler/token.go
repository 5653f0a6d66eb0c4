package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtime-service/internal/middleware"
	"github.com/iliyamo/cinema-showtime-service/internal/utils"
)

// TokenHandler exchanges Basic credentials for a bearer token.
type TokenHandler struct {
	Secret string
	TTL    time.Duration
}

func NewTokenHandler(secret string, ttl time.Duration) *TokenHandler {
	return &TokenHandler{Secret: secret, TTL: ttl}
}

type tokenResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	Roles   []string  `json:"roles"`
}

// Issue handles POST /v1/auth/token.  The caller has already been
// authenticated; a bearer token cannot be used to mint another one.
func (h *TokenHandler) Issue(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return middleware.ErrUnauthorized
	}
	if _, _, basic := c.Request().BasicAuth(); !basic {
		return echo.NewHTTPError(http.StatusBadRequest, "basic credentials required")
	}
	tok, err := utils.NewAccessToken(h.Secret, p.Name, p.Roles, h.TTL)
	if err != nil {
		return err
	}
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: tok.Token, Expires: tok.Exp, Roles: roles})
}
