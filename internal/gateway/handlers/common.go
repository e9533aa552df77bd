package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meditrack-system/internal/services/errs"
)

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

// fail translates service error kinds into transport status codes.
func fail(c *gin.Context, err error) {
	var notFound *errs.NotFoundError
	var insufficient *errs.InsufficientStockError
	var invalid *errs.InvalidInputError
	var constraint *errs.ConstraintViolationError
	var transient *errs.TransientError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   notFound.Error(),
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"error":     insufficient.Error(),
			"sku":       insufficient.SKU,
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   invalid.Error(),
		})
	case errors.As(err, &constraint):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   constraint.Error(),
		})
	case errors.As(err, &transient):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "storage temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal error",
		})
	}
}

func parseIDParam(c *gin.Context, param string) (int64, error) {
	return strconv.ParseInt(c.Param(param), 10, 64)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	str := c.Query(param)
	if str == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultValue
	}
	return val
}

type pagination struct {
	Page     int
	PageSize int
}

func bindPagination(c *gin.Context) pagination {
	return pagination{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 20),
	}
}

func listMeta(total int64, p pagination) gin.H {
	return gin.H{
		"total":     total,
		"page":      p.Page,
		"page_size": p.PageSize,
	}
}
