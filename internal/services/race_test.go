package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/internal/testutil"
	"ipl-prediction-backend/pkg/errors"
)

func TestSettledPollStaysSettledUnderClose(t *testing.T) {
	for i := 0; i < 20; i++ {
		db := testutil.SetupTestDB(t)
		store := repository.NewStore(db)
		polls := NewPollService(store)
		settlement := NewSettlementService(store, nil, nil, DefaultPointsPerCorrectVote)
		ctx := context.Background()

		user := testutil.CreateUser(t, db, "fan", 0)
		match := testutil.CreateMatch(t, db)
		poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, time.Now().Add(time.Hour), "A", "B")
		testutil.CreateVote(t, db, user.ID, poll.ID, poll.Options[0].ID)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := polls.ClosePoll(ctx, poll.ID); err != nil && !errors.Is(err, errors.ErrInvalidState) {
				t.Errorf("ClosePoll() error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := settlement.SettlePoll(ctx, SettleInput{PollID: poll.ID, CorrectOptionID: poll.Options[0].ID}); err != nil {
				t.Errorf("SettlePoll() error = %v", err)
			}
		}()
		wg.Wait()

		got, _ := store.Polls.GetByID(ctx, poll.ID)
		if got.Status != models.PollStatusSettled {
			t.Fatalf("status = %s, want SETTLED", got.Status)
		}
		if _, err := settlement.SettlePoll(ctx, SettleInput{PollID: poll.ID, CorrectOptionID: poll.Options[1].ID}); !errors.Is(err, errors.ErrInvalidState) {
			t.Fatalf("re-settle error = %v, want INVALID_STATE", err)
		}
		u, _ := store.Users.GetByID(ctx, user.ID)
		if u.Points != DefaultPointsPerCorrectVote {
			t.Fatalf("points = %d, want %d", u.Points, DefaultPointsPerCorrectVote)
		}
	}
}

func TestLateVotesCannotMoveCreditedVotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	votes := NewVoteService(store)
	settlement := NewSettlementService(store, nil, nil, DefaultPointsPerCorrectVote)
	ctx := context.Background()

	match := testutil.CreateMatch(t, db)
	poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, time.Now().Add(time.Hour), "A", "B")
	correct, other := poll.Options[0].ID, poll.Options[1].ID

	var users []*models.User
	for _, name := range []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8"} {
		u := testutil.CreateUser(t, db, name, 0)
		testutil.CreateVote(t, db, u.ID, poll.ID, correct)
		users = append(users, u)
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := votes.SubmitVote(ctx, userID, poll.ID, other); err != nil && !errors.Is(err, errors.ErrInvalidState) {
				t.Errorf("SubmitVote() error = %v", err)
			}
		}(u.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := settlement.SettlePoll(ctx, SettleInput{PollID: poll.ID, CorrectOptionID: correct}); err != nil {
			t.Errorf("SettlePoll() error = %v", err)
		}
	}()
	wg.Wait()

	stored, err := store.Votes.ListByPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("ListByPoll() error = %v", err)
	}
	for _, v := range stored {
		if v.Points > 0 && v.OptionID != correct {
			t.Errorf("vote %d credited %d points on option %d, want option %d", v.ID, v.Points, v.OptionID, correct)
		}
		u, _ := store.Users.GetByID(ctx, v.UserID)
		if u.Points != v.Points {
			t.Errorf("user %d points = %d, vote points = %d", v.UserID, u.Points, v.Points)
		}
	}
}
