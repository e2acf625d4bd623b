package util

import (
	"errors"
	"fmt"
	"net/http"

	"learnhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构: clients follow Next until it is null.
type PageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

// Paginated wraps a result page in the next/previous envelope, deriving the
// neighbour URLs from the current request.
func Paginated(c *gin.Context, count int64, page, pageSize int, results interface{}) {
	var next, prev *string
	if int64(page*pageSize) < count {
		u := pageURL(c, page+1)
		next = &u
	}
	if page > 1 {
		u := pageURL(c, page-1)
		prev = &u
	}
	c.JSON(http.StatusOK, PageResponse{
		Count:    count,
		Next:     next,
		Previous: prev,
		Results:  results,
	})
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()
	return u.String()
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// ServiceError maps service-layer sentinel errors onto HTTP statuses.
// Ownership-scoped misses arrive here as ErrNotFound, never as Forbidden.
func ServiceError(c *gin.Context, err error) {
	var fieldErr *FieldError
	switch {
	case errors.Is(err, ErrNotFound):
		NotFound(c)
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(c)
	case errors.Is(err, ErrNotEnrolled):
		Forbidden(c)
	case errors.Is(err, ErrUnknownContentType), errors.Is(err, ErrSlugTaken), errors.Is(err, ErrSubjectInUse):
		BadRequest(c, err.Error())
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: "validation failed",
			Data:    gin.H{"errors": []FieldError{*fieldErr}},
		})
	default:
		LogInternalError(c, err)
	}
}
