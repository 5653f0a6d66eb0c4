package service

import (
	"math"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// normalizePage applies the default size and rejects out-of-range values.
// PageNo is bounded so that the row offset always fits in an int.
func normalizePage(p model.PageRequest) (model.PageRequest, error) {
	if p.PageNo < 0 {
		return p, &InvalidInputError{Field: "pageNo", Reason: "must not be negative"}
	}
	switch {
	case p.PageSize == 0:
		p.PageSize = DefaultPageSize
	case p.PageSize < 0 || p.PageSize > MaxPageSize:
		return p, &InvalidInputError{Field: "pageSize", Reason: "must be between 1 and 100"}
	}
	if p.PageNo > math.MaxInt/p.PageSize {
		return p, &InvalidInputError{Field: "pageNo", Reason: "is too large"}
	}
	return p, nil
}
