package handlers

import (
	"net/http"
	"strconv"
	"time"

	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollService       *services.PollService
	voteService       *services.VoteService
	settlementService *services.SettlementService
}

func NewPollHandler(pollService *services.PollService, voteService *services.VoteService, settlementService *services.SettlementService) *PollHandler {
	return &PollHandler{
		pollService:       pollService,
		voteService:       voteService,
		settlementService: settlementService,
	}
}

type CreatePollRequest struct {
	MatchID     uint      `json:"match_id" binding:"required" example:"1"`
	Question    string    `json:"question" binding:"required,max=1000" example:"Who will win the toss?"`
	PollEndTime time.Time `json:"poll_end_time" example:"2026-04-01T14:00:00Z"`
	Options     []string  `json:"options" binding:"required,min=2,dive,required,max=500" example:"CSK,MI"`
}

type VoteRequest struct {
	OptionID uint `json:"option_id" binding:"required" example:"3"`
}

type SettleRequest struct {
	CorrectOptionID      uint `json:"correct_option_id" binding:"required" example:"3"`
	PointsPerCorrectVote int  `json:"points_per_correct_vote" binding:"min=0" example:"10"`
}

// ListPolls godoc
// @Summary      List polls
// @Description  Newest first; filter by match and status
// @Tags         polls
// @Produce      json
// @Param        match_id  query int    false "Match ID"
// @Param        status    query string false "ACTIVE, CLOSED or SETTLED"
// @Param        page      query int    false "Page (1-based)"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} ListResponse{items=[]services.PollView}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/polls [get]
func (h *PollHandler) ListPolls(c *gin.Context) {
	page, num, size, ok := parsePage(c)
	if !ok {
		return
	}

	var filter repository.PollFilter
	if raw := c.Query("match_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid match_id"})
			return
		}
		filter.MatchID = uint(id)
	}
	filter.Status = c.Query("status")

	polls, total, err := h.pollService.ListPolls(c.Request.Context(), filter, page, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: polls, Total: total, Page: num, PageSize: size})
}

// GetPoll godoc
// @Summary      Get a poll
// @Description  Poll with vote tallies, the caller's vote and, once settled, the correct option
// @Tags         polls
// @Produce      json
// @Param        id path int true "Poll ID"
// @Success      200 {object} services.PollView
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/polls/{id} [get]
func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}

	poll, err := h.pollService.GetPoll(c.Request.Context(), pollID, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}

// CreatePoll godoc
// @Summary      Create a poll
// @Description  Admin only. Needs at least two distinct options and a future end time
// @Tags         polls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePollRequest true "Poll data"
// @Success      201 {object} services.PollView
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/polls [post]
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	poll, err := h.pollService.CreatePoll(c.Request.Context(), services.CreatePollInput{
		MatchID:     req.MatchID,
		Question:    req.Question,
		PollEndTime: req.PollEndTime,
		Options:     req.Options,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, poll)
}

// ClosePoll godoc
// @Summary      Close a poll
// @Description  Admin only. Stops voting on an active poll
// @Tags         polls
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Poll ID"
// @Success      200 {object} services.PollView
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/polls/{id}/close [post]
func (h *PollHandler) ClosePoll(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}

	poll, err := h.pollService.ClosePoll(c.Request.Context(), pollID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}

// DeletePoll godoc
// @Summary      Delete a poll
// @Description  Admin only. Removes the poll with its options, votes and notifications
// @Tags         polls
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Poll ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/polls/{id} [delete]
func (h *PollHandler) DeletePoll(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.pollService.DeletePoll(c.Request.Context(), pollID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "poll deleted"})
}

// Vote godoc
// @Summary      Vote on a poll
// @Description  Records the caller's choice; voting again changes it
// @Tags         polls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Poll ID"
// @Param        request body VoteRequest true "Chosen option"
// @Success      200 {object} Vote
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/polls/{id}/vote [post]
func (h *PollHandler) Vote(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	vote, err := h.voteService.SubmitVote(c.Request.Context(), userID(c), pollID, req.OptionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vote)
}

// Settle godoc
// @Summary      Settle a poll
// @Description  Admin only. Marks the correct option and awards points to every correct vote
// @Tags         polls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Poll ID"
// @Param        request body SettleRequest true "Correct option"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/polls/{id}/settle [post]
func (h *PollHandler) Settle(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	_, err := h.settlementService.SettlePoll(c.Request.Context(), services.SettleInput{
		PollID:               pollID,
		CorrectOptionID:      req.CorrectOptionID,
		PointsPerCorrectVote: req.PointsPerCorrectVote,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// MyVotes godoc
// @Summary      My votes
// @Description  The caller's voting history, newest first
// @Tags         polls
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "Page (1-based)"
// @Param        page_size query int false "Page size"
// @Success      200 {object} ListResponse{items=[]Vote}
// @Router       /api/v1/me/votes [get]
func (h *PollHandler) MyVotes(c *gin.Context) {
	page, num, size, ok := parsePage(c)
	if !ok {
		return
	}

	votes, total, err := h.voteService.History(c.Request.Context(), userID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: votes, Total: total, Page: num, PageSize: size})
}
