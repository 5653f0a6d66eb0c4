package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

// requestTimeout bounds the service work of a single request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// queryID parses a required positive numeric query parameter.
func queryID(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, badRequest(name + " is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("invalid %s", name))
	}
	return n, nil
}

// queryPage reads pageNo and pageSize.  ok is false when neither is given.
func queryPage(c echo.Context) (page model.PageRequest, ok bool, err error) {
	ok = c.QueryParam("pageNo") != "" || c.QueryParam("pageSize") != ""
	if page.PageNo, err = queryInt(c, "pageNo", 0); err != nil {
		return page, ok, err
	}
	page.PageSize, err = queryInt(c, "pageSize", 0)
	return page, ok, err
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) (*model.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("invalid %s: expected YYYY-MM-DD", name))
	}
	return &d, nil
}

// bodyError is a request body that could not be decoded, such as a
// malformed date or amount.  It is reported like a validation failure.
type bodyError struct {
	msg string
}

func (e *bodyError) Error() string { return e.msg }

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return &bodyError{msg: fmt.Sprint(he.Message)}
		}
		return err
	}
	return c.Validate(req)
}
