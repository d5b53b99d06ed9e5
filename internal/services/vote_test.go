package services

import (
	"context"
	"testing"
	"time"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/internal/testutil"
	"ipl-prediction-backend/pkg/errors"
)

func TestSubmitVoteTwiceKeepsLatest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(repository.NewStore(db))
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "voter", 0)
	match := testutil.CreateMatch(t, db)
	poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, time.Now().Add(time.Hour), "A", "B")

	if _, err := svc.SubmitVote(ctx, user.ID, poll.ID, poll.Options[0].ID); err != nil {
		t.Fatalf("first SubmitVote() error = %v", err)
	}
	vote, err := svc.SubmitVote(ctx, user.ID, poll.ID, poll.Options[1].ID)
	if err != nil {
		t.Fatalf("second SubmitVote() error = %v", err)
	}
	if vote.OptionID != poll.Options[1].ID {
		t.Errorf("OptionID = %d, want %d", vote.OptionID, poll.Options[1].ID)
	}
	if vote.Points != 0 {
		t.Errorf("Points = %d, want 0", vote.Points)
	}

	var count int64
	db.Model(&models.Vote{}).Where("user_id = ? AND poll_id = ?", user.ID, poll.ID).Count(&count)
	if count != 1 {
		t.Errorf("vote rows = %d, want 1", count)
	}
}

func TestSubmitVoteRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(repository.NewStore(db))
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "voter", 0)
	match := testutil.CreateMatch(t, db)
	now := time.Now()

	open := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, now.Add(time.Hour), "A", "B")
	expired := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, now.Add(-time.Second), "A", "B")
	closed := testutil.CreatePoll(t, db, match.ID, models.PollStatusClosed, now.Add(time.Hour), "A", "B")
	settled := testutil.CreatePoll(t, db, match.ID, models.PollStatusSettled, now.Add(time.Hour), "A", "B")

	tests := []struct {
		name     string
		pollID   uint
		optionID uint
		code     string
	}{
		{"missing poll", 9999, open.Options[0].ID, errors.ErrNotFound},
		{"option from another poll", open.ID, closed.Options[0].ID, errors.ErrNotFound},
		{"past end time while still active", expired.ID, expired.Options[0].ID, errors.ErrInvalidState},
		{"closed poll", closed.ID, closed.Options[0].ID, errors.ErrInvalidState},
		{"settled poll", settled.ID, settled.Options[0].ID, errors.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitVote(ctx, user.ID, tt.pollID, tt.optionID)
			if got := errors.CodeOf(err); got != tt.code {
				t.Errorf("code = %s, want %s (err = %v)", got, tt.code, err)
			}
		})
	}

	var count int64
	db.Model(&models.Vote{}).Count(&count)
	if count != 0 {
		t.Errorf("vote rows = %d, want 0", count)
	}
}

func TestSubmitVoteUsesClock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(repository.NewStore(db))

	user := testutil.CreateUser(t, db, "voter", 0)
	match := testutil.CreateMatch(t, db)
	end := time.Now().Add(time.Hour)
	poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, end, "A", "B")

	svc.now = func() time.Time { return end }
	_, err := svc.SubmitVote(context.Background(), user.ID, poll.ID, poll.Options[0].ID)
	if !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("vote at exactly the end time: error = %v, want INVALID_STATE", err)
	}
}
