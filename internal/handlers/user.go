package handlers

import (
	"net/http"

	"ipl-prediction-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest changes only the fields present. favourite_team_id 0 clears it.
type UpdateProfileRequest struct {
	DisplayName     *string `json:"display_name" binding:"omitempty,min=1,max=100" example:"Thala"`
	FavouriteTeamID *uint   `json:"favourite_team_id" example:"1"`
}

// GetMe godoc
// @Summary      My profile
// @Description  Profile with points, rank and voting record
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.Profile
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary      Update my profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} services.Profile
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID(c), services.ProfileUpdate{
		DisplayName:     req.DisplayName,
		FavouriteTeamID: req.FavouriteTeamID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetUser godoc
// @Summary      Public profile
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} services.Profile
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Leaderboard godoc
// @Summary      Leaderboard
// @Description  Users ordered by rank
// @Tags         users
// @Produce      json
// @Param        page      query int false "Page (1-based)"
// @Param        page_size query int false "Page size"
// @Success      200 {object} ListResponse{items=[]User}
// @Router       /api/v1/leaderboard [get]
func (h *UserHandler) Leaderboard(c *gin.Context) {
	page, num, size, ok := parsePage(c)
	if !ok {
		return
	}

	users, total, err := h.userService.Leaderboard(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: users, Total: total, Page: num, PageSize: size})
}
