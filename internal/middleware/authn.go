package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
	"github.com/iliyamo/cinema-showtime-service/internal/utils"
)

// Challenge is sent in WWW-Authenticate with every 401.
const Challenge = `Basic realm="cinema"`

var (
	ErrUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	ErrForbidden    = echo.NewHTTPError(http.StatusForbidden, "forbidden")
)

// Authenticate resolves the caller from the Authorization header.  Basic
// credentials are checked against provider; Bearer tokens must be signed
// with secret.  A request without credentials passes through anonymously
// and is left to the access policy.  Bad credentials are rejected here.
func Authenticate(provider auth.Provider, secret string, log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			var (
				p   auth.Principal
				err error
			)
			scheme, _, _ := strings.Cut(header, " ")
			switch strings.ToLower(scheme) {
			case "basic":
				user, pass, ok := c.Request().BasicAuth()
				if !ok {
					return unauthorized(c)
				}
				p, err = provider.Authenticate(c.Request().Context(), user, pass)
			case "bearer":
				raw := strings.TrimSpace(header[len(scheme):])
				var claims *utils.Claims
				if claims, err = utils.ParseAccessToken(secret, raw); err == nil {
					p = auth.Principal{Name: claims.Subject, Roles: claims.Roles}
				}
			default:
				return unauthorized(c)
			}

			if err != nil {
				if !errors.Is(err, auth.ErrInvalidCredentials) {
					log.WithError(err).WithField("scheme", strings.ToLower(scheme)).Debug("Authentication rejected")
				}
				return unauthorized(c)
			}
			setPrincipal(c, p)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, Challenge)
	return ErrUnauthorized
}
