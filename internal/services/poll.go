package services

import (
	"context"
	"strings"
	"time"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
	"ipl-prediction-backend/pkg/logger"
)

type PollService struct {
	store *repository.Store
	now   func() time.Time
}

func NewPollService(store *repository.Store) *PollService {
	return &PollService{store: store, now: time.Now}
}

type CreatePollInput struct {
	MatchID     uint
	Question    string
	PollEndTime time.Time
	Options     []string
}

// OptionView is an option with its tally. IsCorrect is only set once the poll is
// settled.
type OptionView struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Votes     int64  `json:"votes"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

type PollView struct {
	ID          uint         `json:"id"`
	MatchID     uint         `json:"match_id"`
	Question    string       `json:"question"`
	Status      string       `json:"status"`
	PollEndTime time.Time    `json:"poll_end_time"`
	Options     []OptionView `json:"options"`
	TotalVotes  int64        `json:"total_votes"`
	MyOptionID  *uint        `json:"my_option_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (s *PollService) CreatePoll(ctx context.Context, in CreatePollInput) (*PollView, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, errors.InvalidArgument("question is required")
	}
	if !in.PollEndTime.After(s.now()) {
		return nil, errors.InvalidArgument("poll_end_time must be in the future")
	}

	seen := make(map[string]bool, len(in.Options))
	options := make([]models.Option, 0, len(in.Options))
	for _, text := range in.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, errors.InvalidArgument("options must not be empty")
		}
		key := strings.ToLower(text)
		if seen[key] {
			return nil, errors.InvalidArgument("options must be distinct")
		}
		seen[key] = true
		options = append(options, models.Option{Text: text})
	}
	if len(options) < 2 {
		return nil, errors.InvalidArgument("a poll needs at least two options")
	}

	match, err := s.store.Matches.GetByID(ctx, in.MatchID)
	if err != nil {
		return nil, errors.Internal("failed to load match", err)
	}
	if match == nil {
		return nil, errors.NotFound("match not found")
	}

	poll := &models.Poll{
		MatchID:     match.ID,
		Question:    question,
		Status:      models.PollStatusActive,
		PollEndTime: in.PollEndTime,
		Options:     options,
	}
	if err := s.store.Polls.Create(ctx, poll); err != nil {
		return nil, errors.Internal("failed to create poll", err)
	}

	logger.WithFields(map[string]interface{}{
		"poll_id":  poll.ID,
		"match_id": poll.MatchID,
		"options":  len(poll.Options),
	}).Info("poll created")

	return s.view(ctx, poll, 0)
}

// GetPoll returns the poll with vote tallies. viewerID may be zero for anonymous
// callers.
func (s *PollService) GetPoll(ctx context.Context, pollID, viewerID uint) (*PollView, error) {
	poll, err := s.store.Polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, errors.Internal("failed to load poll", err)
	}
	if poll == nil {
		return nil, errors.NotFound("poll not found")
	}
	return s.view(ctx, poll, viewerID)
}

func (s *PollService) ListPolls(ctx context.Context, filter repository.PollFilter, page repository.Page, viewerID uint) ([]PollView, int64, error) {
	polls, total, err := s.store.Polls.List(ctx, filter, page)
	if err != nil {
		return nil, 0, errors.Internal("failed to list polls", err)
	}

	views := make([]PollView, 0, len(polls))
	for i := range polls {
		v, err := s.view(ctx, &polls[i], viewerID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

func (s *PollService) ClosePoll(ctx context.Context, pollID uint) (*PollView, error) {
	poll, err := s.store.Polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, errors.Internal("failed to load poll", err)
	}
	if poll == nil {
		return nil, errors.NotFound("poll not found")
	}
	if poll.Status != models.PollStatusActive {
		return nil, errors.InvalidState("only active polls can be closed")
	}

	rows, err := s.store.Polls.TransitionStatus(ctx, poll.ID, models.PollStatusActive, models.PollStatusClosed)
	if err != nil {
		return nil, errors.Internal("failed to close poll", err)
	}
	if rows == 0 {
		return nil, errors.InvalidState("only active polls can be closed")
	}
	poll.Status = models.PollStatusClosed
	return s.view(ctx, poll, 0)
}

// DeletePoll removes the poll with its options, votes and notifications. Points
// already awarded by a settlement stay with the users.
func (s *PollService) DeletePoll(ctx context.Context, pollID uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		rows, err := tx.Polls.Delete(ctx, pollID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.NotFound("poll not found")
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "failed to delete poll")
	}

	logger.WithFields(map[string]interface{}{"poll_id": pollID}).Info("poll deleted")
	return nil
}

func (s *PollService) CloseExpiredPolls(ctx context.Context, now time.Time) (int64, error) {
	closed, err := s.store.Polls.CloseExpired(ctx, now)
	if err != nil {
		return 0, errors.Internal("failed to close expired polls", err)
	}
	if closed > 0 {
		logger.WithFields(map[string]interface{}{"closed": closed}).Info("expired polls closed")
	}
	return closed, nil
}

func (s *PollService) view(ctx context.Context, poll *models.Poll, viewerID uint) (*PollView, error) {
	counts, err := s.store.Votes.CountByOption(ctx, poll.ID)
	if err != nil {
		return nil, errors.Internal("failed to count votes", err)
	}

	v := &PollView{
		ID:          poll.ID,
		MatchID:     poll.MatchID,
		Question:    poll.Question,
		Status:      poll.Status,
		PollEndTime: poll.PollEndTime,
		Options:     make([]OptionView, 0, len(poll.Options)),
		CreatedAt:   poll.CreatedAt,
	}
	settled := poll.Status == models.PollStatusSettled
	for _, opt := range poll.Options {
		ov := OptionView{ID: opt.ID, Text: opt.Text, Votes: counts[opt.ID]}
		if settled {
			correct := opt.IsCorrect
			ov.IsCorrect = &correct
		}
		v.TotalVotes += ov.Votes
		v.Options = append(v.Options, ov)
	}

	if viewerID != 0 {
		vote, err := s.store.Votes.GetByUserAndPoll(ctx, viewerID, poll.ID)
		if err != nil {
			return nil, errors.Internal("failed to load vote", err)
		}
		if vote != nil {
			v.MyOptionID = &vote.OptionID
		}
	}
	return v, nil
}
