package services

import (
	"context"
	"strings"
	"time"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
)

type MatchService struct {
	store *repository.Store
}

func NewMatchService(store *repository.Store) *MatchService {
	return &MatchService{store: store}
}

type MatchInput struct {
	HomeTeamID uint
	AwayTeamID uint
	Venue      string
	StartTime  time.Time
}

func (s *MatchService) ListMatches(ctx context.Context, status string, page repository.Page) ([]models.Match, int64, error) {
	if status != "" && !models.ValidMatchStatus(status) {
		return nil, 0, errors.InvalidArgument("unknown match status")
	}
	matches, total, err := s.store.Matches.List(ctx, status, page)
	if err != nil {
		return nil, 0, errors.Internal("failed to list matches", err)
	}
	return matches, total, nil
}

func (s *MatchService) GetMatch(ctx context.Context, id uint) (*models.Match, error) {
	match, err := s.store.Matches.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Internal("failed to load match", err)
	}
	if match == nil {
		return nil, errors.NotFound("match not found")
	}
	return match, nil
}

func (s *MatchService) CreateMatch(ctx context.Context, in MatchInput) (*models.Match, error) {
	if err := s.checkTeams(ctx, in); err != nil {
		return nil, err
	}

	match := &models.Match{
		HomeTeamID: in.HomeTeamID,
		AwayTeamID: in.AwayTeamID,
		Venue:      strings.TrimSpace(in.Venue),
		StartTime:  in.StartTime,
		Status:     models.MatchStatusUpcoming,
	}
	if err := s.store.Matches.Create(ctx, match); err != nil {
		return nil, errors.Internal("failed to create match", err)
	}
	return s.GetMatch(ctx, match.ID)
}

func (s *MatchService) UpdateMatch(ctx context.Context, id uint, in MatchInput) (*models.Match, error) {
	match, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeams(ctx, in); err != nil {
		return nil, err
	}

	match.HomeTeamID = in.HomeTeamID
	match.AwayTeamID = in.AwayTeamID
	match.Venue = strings.TrimSpace(in.Venue)
	match.StartTime = in.StartTime
	if match.WinnerTeamID != nil && *match.WinnerTeamID != in.HomeTeamID && *match.WinnerTeamID != in.AwayTeamID {
		match.WinnerTeamID = nil
	}

	if err := s.store.Matches.Save(ctx, match); err != nil {
		return nil, errors.Internal("failed to update match", err)
	}
	return s.GetMatch(ctx, match.ID)
}

// UpdateStatus moves the match to status and records the winner. A winner is only
// accepted for COMPLETED matches and must be one of the two sides.
func (s *MatchService) UpdateStatus(ctx context.Context, id uint, status string, winnerTeamID *uint) (*models.Match, error) {
	if !models.ValidMatchStatus(status) {
		return nil, errors.InvalidArgument("unknown match status")
	}
	match, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	if winnerTeamID != nil {
		if status != models.MatchStatusCompleted {
			return nil, errors.InvalidArgument("winner can only be set on a completed match")
		}
		if *winnerTeamID != match.HomeTeamID && *winnerTeamID != match.AwayTeamID {
			return nil, errors.InvalidArgument("winner must be one of the match teams")
		}
	}

	match.Status = status
	match.WinnerTeamID = winnerTeamID
	if err := s.store.Matches.Save(ctx, match); err != nil {
		return nil, errors.Internal("failed to update match", err)
	}
	return match, nil
}

func (s *MatchService) DeleteMatch(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		polls, err := tx.Polls.CountByMatch(ctx, id)
		if err != nil {
			return err
		}
		if polls > 0 {
			return errors.InvalidState("match still has polls")
		}

		rows, err := tx.Matches.Delete(ctx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.NotFound("match not found")
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "failed to delete match")
	}
	return nil
}

func (s *MatchService) checkTeams(ctx context.Context, in MatchInput) error {
	if in.HomeTeamID == 0 || in.AwayTeamID == 0 {
		return errors.InvalidArgument("home_team_id and away_team_id are required")
	}
	if in.HomeTeamID == in.AwayTeamID {
		return errors.InvalidArgument("a team cannot play itself")
	}
	if in.StartTime.IsZero() {
		return errors.InvalidArgument("start_time is required")
	}

	for _, id := range []uint{in.HomeTeamID, in.AwayTeamID} {
		team, err := s.store.Teams.GetByID(ctx, id)
		if err != nil {
			return errors.Internal("failed to load team", err)
		}
		if team == nil {
			return errors.NotFound("team not found")
		}
	}
	return nil
}
