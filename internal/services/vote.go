package services

import (
	"context"
	"time"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
)

type VoteService struct {
	store *repository.Store
	now   func() time.Time
}

func NewVoteService(store *repository.Store) *VoteService {
	return &VoteService{store: store, now: time.Now}
}

// SubmitVote records the user's choice for a poll. A second submission moves the
// existing vote to the new option instead of adding a row.
func (s *VoteService) SubmitVote(ctx context.Context, userID, pollID, optionID uint) (*models.Vote, error) {
	var vote *models.Vote
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		// row lock held until commit; settlement waits for it
		poll, err := tx.Polls.GetForUpdate(ctx, pollID)
		if err != nil {
			return err
		}
		if poll == nil {
			return errors.NotFound("poll not found")
		}

		option, err := tx.Polls.GetOption(ctx, pollID, optionID)
		if err != nil {
			return err
		}
		if option == nil {
			return errors.NotFound("option not found for poll")
		}

		if poll.Status != models.PollStatusActive {
			return errors.InvalidState("poll is not accepting votes")
		}
		if !poll.AcceptsVotes(s.now()) {
			return errors.InvalidState("poll has ended")
		}

		vote, err = tx.Votes.Upsert(ctx, &models.Vote{
			UserID:   userID,
			PollID:   pollID,
			OptionID: option.ID,
		})
		return err
	})
	if err != nil {
		return nil, passThrough(err, "failed to save vote")
	}
	return vote, nil
}

// History returns the user's votes, newest first.
func (s *VoteService) History(ctx context.Context, userID uint, page repository.Page) ([]models.Vote, int64, error) {
	votes, total, err := s.store.Votes.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, errors.Internal("failed to list votes", err)
	}
	return votes, total, nil
}
