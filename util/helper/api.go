package helper_util

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPaginationParams reads limit/offset query params with bounds. maxLimit
// caps the response size so a single request cannot dump the whole dataset.
func GetPaginationParams(c *gin.Context, maxLimit int) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		return 0, 0, err
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, err
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("offset must not be negative")
	}
	return limit, offset, nil
}

// GetLimitParam reads a bare limit query param for the ranking endpoints.
func GetLimitParam(c *gin.Context, def, maxLimit int) (int, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil {
		return 0, err
	}
	if limit < 1 || limit > maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}
	return limit, nil
}
