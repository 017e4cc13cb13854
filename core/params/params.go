package params

import (
	"strconv"

	"campus-events-api/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams holds common pagination query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// FromEcho reads page/page_size query params with defaults and bounds.
func FromEcho(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		p.PageSize = v
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	return p
}
