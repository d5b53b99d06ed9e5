package handlers

import (
	"net/http"
	"time"

	"ipl-prediction-backend/internal/middleware"
	"ipl-prediction-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService   *services.MatchService
	commentService *services.CommentService
}

func NewMatchHandler(matchService *services.MatchService, commentService *services.CommentService) *MatchHandler {
	return &MatchHandler{matchService: matchService, commentService: commentService}
}

type MatchRequest struct {
	HomeTeamID uint      `json:"home_team_id" binding:"required" example:"1"`
	AwayTeamID uint      `json:"away_team_id" binding:"required" example:"2"`
	Venue      string    `json:"venue" binding:"max=255" example:"M. A. Chidambaram Stadium"`
	StartTime  time.Time `json:"start_time" example:"2026-04-01T14:00:00Z"`
}

func (r MatchRequest) input() services.MatchInput {
	return services.MatchInput{
		HomeTeamID: r.HomeTeamID,
		AwayTeamID: r.AwayTeamID,
		Venue:      r.Venue,
		StartTime:  r.StartTime,
	}
}

type MatchStatusRequest struct {
	Status       string `json:"status" binding:"required,oneof=UPCOMING LIVE COMPLETED" example:"COMPLETED"`
	WinnerTeamID *uint  `json:"winner_team_id" example:"1"`
}

type CommentRequest struct {
	Body string `json:"body" binding:"required,max=1000" example:"What a finish!"`
}

// ListMatches godoc
// @Summary      List matches
// @Description  Ordered by start time
// @Tags         matches
// @Produce      json
// @Param        status    query string false "UPCOMING, LIVE or COMPLETED"
// @Param        page      query int    false "Page (1-based)"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} ListResponse{items=[]Match}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	page, num, size, ok := parsePage(c)
	if !ok {
		return
	}

	matches, total, err := h.matchService.ListMatches(c.Request.Context(), c.Query("status"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: matches, Total: total, Page: num, PageSize: size})
}

// GetMatch godoc
// @Summary      Get a match
// @Tags         matches
// @Produce      json
// @Param        id path int true "Match ID"
// @Success      200 {object} Match
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches/{id} [get]
func (h *MatchHandler) GetMatch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	match, err := h.matchService.GetMatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// CreateMatch godoc
// @Summary      Create a match
// @Description  Admin only
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body MatchRequest true "Match data"
// @Success      201 {object} Match
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches [post]
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	match, err := h.matchService.CreateMatch(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, match)
}

// UpdateMatch godoc
// @Summary      Update a match
// @Description  Admin only
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Match ID"
// @Param        request body MatchRequest true "Match data"
// @Success      200 {object} Match
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches/{id} [put]
func (h *MatchHandler) UpdateMatch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	match, err := h.matchService.UpdateMatch(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// UpdateMatchStatus godoc
// @Summary      Update match status
// @Description  Admin only. A winner may only be set on a completed match
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Match ID"
// @Param        request body MatchStatusRequest true "Status and winner"
// @Success      200 {object} Match
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches/{id}/status [put]
func (h *MatchHandler) UpdateMatchStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req MatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	match, err := h.matchService.UpdateStatus(c.Request.Context(), id, req.Status, req.WinnerTeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// DeleteMatch godoc
// @Summary      Delete a match
// @Description  Admin only. Refused while the match has polls
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Match ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/matches/{id} [delete]
func (h *MatchHandler) DeleteMatch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.matchService.DeleteMatch(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "match deleted"})
}

// ListComments godoc
// @Summary      List match comments
// @Description  Newest first
// @Tags         comments
// @Produce      json
// @Param        id        path  int true  "Match ID"
// @Param        page      query int false "Page (1-based)"
// @Param        page_size query int false "Page size"
// @Success      200 {object} ListResponse{items=[]Comment}
// @Router       /api/v1/matches/{id}/comments [get]
func (h *MatchHandler) ListComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, num, size, ok := parsePage(c)
	if !ok {
		return
	}

	comments, total, err := h.commentService.ListComments(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: comments, Total: total, Page: num, PageSize: size})
}

// AddComment godoc
// @Summary      Comment on a match
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Match ID"
// @Param        request body CommentRequest true "Comment"
// @Success      201 {object} Comment
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches/{id}/comments [post]
func (h *MatchHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), userID(c), id, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Authors can delete their own comments; admins can delete any
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Comment ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/comments/{id} [delete]
func (h *MatchHandler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "comment deleted"})
}
