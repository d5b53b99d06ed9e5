package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"ipl-prediction-backend/internal/events"
	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
	"ipl-prediction-backend/pkg/logger"

	"gorm.io/gorm"
)

const DefaultPointsPerCorrectVote = 10

type RankRecomputer interface {
	RecomputeRanks(ctx context.Context) error
}

type SettlementPublisher interface {
	PublishPollSettled(ctx context.Context, event events.PollSettled) error
}

type SettlementService struct {
	store         *repository.Store
	ranks         RankRecomputer
	publisher     SettlementPublisher
	defaultPoints int
	now           func() time.Time
}

func NewSettlementService(store *repository.Store, ranks RankRecomputer, publisher SettlementPublisher, defaultPoints int) *SettlementService {
	if defaultPoints <= 0 {
		defaultPoints = DefaultPointsPerCorrectVote
	}
	return &SettlementService{
		store:         store,
		ranks:         ranks,
		publisher:     publisher,
		defaultPoints: defaultPoints,
		now:           time.Now,
	}
}

type SettleInput struct {
	PollID          uint
	CorrectOptionID uint
	// PointsPerCorrectVote falls back to the configured default when zero.
	PointsPerCorrectVote int
}

type SettlementResult struct {
	PollID               uint `json:"poll_id"`
	CorrectOptionID      uint `json:"correct_option_id"`
	PointsPerCorrectVote int  `json:"points_per_correct_vote"`
	CorrectVotes         int  `json:"correct_votes"`
	Voters               int  `json:"voters"`
}

// SettlePoll marks the correct option, closes the poll as SETTLED and credits
// every vote for that option, all in one transaction. Voters are notified and
// ranks recomputed after the commit.
func (s *SettlementService) SettlePoll(ctx context.Context, in SettleInput) (*SettlementResult, error) {
	if in.CorrectOptionID == 0 {
		return nil, errors.InvalidArgument("correct_option_id is required")
	}
	if in.PointsPerCorrectVote < 0 {
		return nil, errors.InvalidArgument("points_per_correct_vote must be positive")
	}
	points := in.PointsPerCorrectVote
	if points == 0 {
		points = s.defaultPoints
	}

	result := &SettlementResult{
		PollID:               in.PollID,
		CorrectOptionID:      in.CorrectOptionID,
		PointsPerCorrectVote: points,
	}
	var event events.PollSettled

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		poll, err := tx.Polls.GetForUpdate(ctx, in.PollID)
		if err != nil {
			return err
		}
		if poll == nil {
			return errors.NotFound("poll not found")
		}

		option, err := tx.Polls.GetOption(ctx, poll.ID, in.CorrectOptionID)
		if err != nil {
			return err
		}
		if option == nil {
			return errors.NotFound("option not found for poll")
		}

		if poll.Status == models.PollStatusSettled {
			return errors.InvalidState("poll already settled")
		}

		if err := tx.Polls.MarkOptionCorrect(ctx, option.ID); err != nil {
			return err
		}
		if err := tx.Polls.UpdateStatus(ctx, poll.ID, models.PollStatusSettled); err != nil {
			return err
		}

		votes, err := tx.Votes.ListByPoll(ctx, poll.ID)
		if err != nil {
			return err
		}

		seen := make(map[uint]bool, len(votes))
		voterIDs := make([]uint, 0, len(votes))
		for _, v := range votes {
			if !seen[v.UserID] {
				seen[v.UserID] = true
				voterIDs = append(voterIDs, v.UserID)
			}
			if v.OptionID != option.ID {
				continue
			}
			if err := tx.Votes.SetPoints(ctx, v.ID, points); err != nil {
				return err
			}
			if err := tx.Users.AddPoints(ctx, v.UserID, points); err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("voter %d no longer exists: %w", v.UserID, err)
				}
				return err
			}
			result.CorrectVotes++
		}
		result.Voters = len(voterIDs)

		event = events.PollSettled{
			PollID:          poll.ID,
			MatchID:         poll.MatchID,
			Question:        poll.Question,
			CorrectOptionID: option.ID,
			VoterIDs:        voterIDs,
			SettledAt:       s.now(),
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to settle poll")
	}

	logger.WithFields(map[string]interface{}{
		"poll_id":        result.PollID,
		"correct_option": result.CorrectOptionID,
		"points":         result.PointsPerCorrectVote,
		"correct_votes":  result.CorrectVotes,
		"voters":         result.Voters,
	}).Info("poll settled")

	if s.publisher != nil && len(event.VoterIDs) > 0 {
		if err := s.publisher.PublishPollSettled(ctx, event); err != nil {
			logger.WithError(err).WithField("poll_id", result.PollID).Error("failed to publish settlement")
		}
	}

	if s.ranks != nil {
		if err := s.ranks.RecomputeRanks(ctx); err != nil {
			logger.WithError(err).Warn("rank recomputation after settlement failed")
		}
	}

	return result, nil
}
