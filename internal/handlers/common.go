package handlers

import (
	"net/http"
	"strconv"

	"ipl-prediction-backend/internal/middleware"
	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
	"ipl-prediction-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 1_000_000
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// ListResponse wraps one page of results.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total" example:"42"`
	Page     int         `json:"page" example:"1"`
	PageSize int         `json:"page_size" example:"20"`
}

// Type aliases so swag can resolve models in annotations.
type User = models.User
type Team = models.Team
type Match = models.Match
type Vote = models.Vote
type Comment = models.Comment
type Notification = models.Notification

var statusByCode = map[string]int{
	errors.ErrUnauthenticated: http.StatusUnauthorized,
	errors.ErrForbidden:       http.StatusForbidden,
	errors.ErrInvalidArgument: http.StatusBadRequest,
	errors.ErrNotFound:        http.StatusNotFound,
	errors.ErrInvalidState:    http.StatusConflict,
	errors.ErrConflict:        http.StatusConflict,
	errors.ErrInternal:        http.StatusInternalServerError,
}

func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("internal error")
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(status, ErrorResponse{Error: errors.MessageOf(err)})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param})
		return 0, false
	}
	return uint(id), true
}

// parsePage reads ?page=&page_size= (1-based, capped at maxPageSize).
func parsePage(c *gin.Context) (repository.Page, int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 || page > maxPage {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		return repository.Page{}, 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page_size"})
		return repository.Page{}, 0, 0, false
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return repository.Page{Offset: (page - 1) * size, Limit: size}, page, size, true
}

// userID is zero for anonymous callers on optionally authenticated routes.
func userID(c *gin.Context) uint {
	return middleware.CurrentIdentity(c).UserID
}
