package services

import (
	"context"
	"strings"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
)

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

type Profile struct {
	*models.User
	TotalVotes   int64 `json:"total_votes"`
	CorrectVotes int64 `json:"correct_votes"`
}

type ProfileUpdate struct {
	DisplayName     *string
	FavouriteTeamID *uint
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, errors.NotFound("user not found")
	}

	total, correct, err := s.store.Votes.UserStats(ctx, userID)
	if err != nil {
		return nil, errors.Internal("failed to load vote stats", err)
	}
	return &Profile{User: user, TotalVotes: total, CorrectVotes: correct}, nil
}

// UpdateProfile changes only the fields that are set. A favourite team id of zero
// clears the favourite.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*Profile, error) {
	fields := map[string]interface{}{}

	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" || len([]rune(name)) > 100 {
			return nil, errors.InvalidArgument("display_name must be 1-100 characters")
		}
		fields["display_name"] = name
	}

	if upd.FavouriteTeamID != nil {
		if *upd.FavouriteTeamID == 0 {
			fields["favourite_team_id"] = nil
		} else {
			team, err := s.store.Teams.GetByID(ctx, *upd.FavouriteTeamID)
			if err != nil {
				return nil, errors.Internal("failed to load team", err)
			}
			if team == nil {
				return nil, errors.NotFound("team not found")
			}
			fields["favourite_team_id"] = team.ID
		}
	}

	if len(fields) > 0 {
		existing, err := s.store.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, errors.Internal("failed to load user", err)
		}
		if existing == nil {
			return nil, errors.NotFound("user not found")
		}
		if err := s.store.Users.Update(ctx, userID, fields); err != nil {
			return nil, errors.Internal("failed to update profile", err)
		}
	}
	return s.GetProfile(ctx, userID)
}

func (s *UserService) Leaderboard(ctx context.Context, page repository.Page) ([]models.User, int64, error) {
	users, total, err := s.store.Users.Leaderboard(ctx, page)
	if err != nil {
		return nil, 0, errors.Internal("failed to load leaderboard", err)
	}
	return users, total, nil
}
