package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PaginationParams is a limit/offset window read from the query string.
type PaginationParams struct {
	Limit  int
	Offset int
}

// GetPaginationParams reads limit and skip (or offset) with a default and an upper bound on limit.
func GetPaginationParams(c echo.Context, defaultLimit, maxLimit int) PaginationParams {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	offsetStr := c.QueryParam("skip")
	if offsetStr == "" {
		offsetStr = c.QueryParam("offset")
	}
	offset, _ := strconv.Atoi(offsetStr)
	if offset < 0 {
		offset = 0
	}

	return PaginationParams{
		Limit:  limit,
		Offset: offset,
	}
}
