package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/service"
)

// ErrorHandler translates errors returned by handlers and middleware into
// JSON responses.  Domain errors keep their message; anything unexpected is
// logged and reported as a bare 500.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorResponse(err)
		if status == http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).Error("Unhandled request error")
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Warn("Failed to write error response")
		}
	}
}

func errorResponse(err error) (int, echo.Map) {
	var (
		notFound    *service.NotFoundError
		conflict    *service.ConflictError
		invalid     *service.InvalidInputError
		unavailable *service.DetailsUnavailableError
		validation  validator.ValidationErrors
		body        *bodyError
		httpErr     *echo.HTTPError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, echo.Map{"error": notFound.Error()}
	case errors.As(err, &conflict):
		return http.StatusConflict, echo.Map{"error": conflict.Error()}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, echo.Map{"errors": []string{invalid.Error()}}
	case errors.As(err, &unavailable):
		return http.StatusBadRequest, echo.Map{"error": unavailable.Error()}
	case errors.As(err, &validation):
		return http.StatusBadRequest, echo.Map{"errors": validationMessages(validation)}
	case errors.As(err, &body):
		return http.StatusBadRequest, echo.Map{"errors": []string{body.Error()}}
	case errors.As(err, &httpErr):
		msg := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok && s != "" {
			msg = s
		}
		if httpErr.Code >= http.StatusInternalServerError {
			msg = "internal error"
		}
		return httpErr.Code, echo.Map{"error": msg}
	}
	return http.StatusInternalServerError, echo.Map{"error": "internal error"}
}

// badRequest wraps a malformed path or query parameter.
func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
