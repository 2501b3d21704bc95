package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseUintParam extracts a positive integer path parameter
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}

// parseInt64Param extracts an int64 path parameter
func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
