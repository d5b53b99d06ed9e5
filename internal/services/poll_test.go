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

func TestCreatePollValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPollService(repository.NewStore(db))
	match := testutil.CreateMatch(t, db)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name string
		in   CreatePollInput
		code string
	}{
		{"one option", CreatePollInput{MatchID: match.ID, Question: "Q", PollEndTime: future, Options: []string{"A"}}, errors.ErrInvalidArgument},
		{"duplicate options", CreatePollInput{MatchID: match.ID, Question: "Q", PollEndTime: future, Options: []string{"A", " a "}}, errors.ErrInvalidArgument},
		{"blank option", CreatePollInput{MatchID: match.ID, Question: "Q", PollEndTime: future, Options: []string{"A", ""}}, errors.ErrInvalidArgument},
		{"blank question", CreatePollInput{MatchID: match.ID, Question: "  ", PollEndTime: future, Options: []string{"A", "B"}}, errors.ErrInvalidArgument},
		{"past end time", CreatePollInput{MatchID: match.ID, Question: "Q", PollEndTime: time.Now().Add(-time.Minute), Options: []string{"A", "B"}}, errors.ErrInvalidArgument},
		{"unknown match", CreatePollInput{MatchID: 9999, Question: "Q", PollEndTime: future, Options: []string{"A", "B"}}, errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePoll(context.Background(), tt.in)
			if got := errors.CodeOf(err); got != tt.code {
				t.Errorf("code = %s, want %s (err = %v)", got, tt.code, err)
			}
		})
	}
}

func TestCreateAndGetPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	svc := NewPollService(store)
	ctx := context.Background()

	match := testutil.CreateMatch(t, db)
	view, err := svc.CreatePoll(ctx, CreatePollInput{
		MatchID:     match.ID,
		Question:    "Who wins?",
		PollEndTime: time.Now().Add(time.Hour),
		Options:     []string{"CSK", "MI", "Tie"},
	})
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}
	if view.Status != models.PollStatusActive || len(view.Options) != 3 {
		t.Fatalf("view = %+v, want ACTIVE with 3 options", view)
	}

	alice := testutil.CreateUser(t, db, "alice", 0)
	bob := testutil.CreateUser(t, db, "bob", 0)
	testutil.CreateVote(t, db, alice.ID, view.ID, view.Options[0].ID)
	testutil.CreateVote(t, db, bob.ID, view.ID, view.Options[0].ID)

	got, err := svc.GetPoll(ctx, view.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetPoll() error = %v", err)
	}
	if got.TotalVotes != 2 || got.Options[0].Votes != 2 {
		t.Errorf("tallies = %d total, %d on first option; want 2, 2", got.TotalVotes, got.Options[0].Votes)
	}
	if got.MyOptionID == nil || *got.MyOptionID != view.Options[0].ID {
		t.Errorf("MyOptionID = %v, want %d", got.MyOptionID, view.Options[0].ID)
	}
	for _, opt := range got.Options {
		if opt.IsCorrect != nil {
			t.Errorf("option %d exposes correctness before settlement", opt.ID)
		}
	}

	anon, _ := svc.GetPoll(ctx, view.ID, 0)
	if anon.MyOptionID != nil {
		t.Errorf("anonymous MyOptionID = %v, want nil", anon.MyOptionID)
	}
}

func TestGetPollShowsCorrectOptionOnceSettled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	ctx := context.Background()

	match := testutil.CreateMatch(t, db)
	poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusClosed, time.Now().Add(-time.Hour), "A", "B")

	settlement := NewSettlementService(store, nil, nil, 10)
	if _, err := settlement.SettlePoll(ctx, SettleInput{PollID: poll.ID, CorrectOptionID: poll.Options[1].ID}); err != nil {
		t.Fatalf("SettlePoll() error = %v", err)
	}

	view, err := NewPollService(store).GetPoll(ctx, poll.ID, 0)
	if err != nil {
		t.Fatalf("GetPoll() error = %v", err)
	}
	if view.Options[0].IsCorrect == nil || *view.Options[0].IsCorrect {
		t.Errorf("option A IsCorrect = %v, want false", view.Options[0].IsCorrect)
	}
	if view.Options[1].IsCorrect == nil || !*view.Options[1].IsCorrect {
		t.Errorf("option B IsCorrect = %v, want true", view.Options[1].IsCorrect)
	}
}

func TestListPollsFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPollService(repository.NewStore(db))
	ctx := context.Background()

	m1 := testutil.CreateMatch(t, db)
	m2 := testutil.CreateMatch(t, db)
	future := time.Now().Add(time.Hour)
	testutil.CreatePoll(t, db, m1.ID, models.PollStatusActive, future, "A", "B")
	testutil.CreatePoll(t, db, m1.ID, models.PollStatusClosed, future, "A", "B")
	testutil.CreatePoll(t, db, m2.ID, models.PollStatusActive, future, "A", "B")

	polls, total, err := svc.ListPolls(ctx, repository.PollFilter{MatchID: m1.ID}, repository.Page{Limit: 1}, 0)
	if err != nil {
		t.Fatalf("ListPolls() error = %v", err)
	}
	if total != 2 || len(polls) != 1 {
		t.Errorf("got %d polls of %d, want 1 of 2", len(polls), total)
	}

	_, total, _ = svc.ListPolls(ctx, repository.PollFilter{Status: models.PollStatusActive}, repository.Page{}, 0)
	if total != 2 {
		t.Errorf("active total = %d, want 2", total)
	}
}

func TestClosePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPollService(repository.NewStore(db))
	ctx := context.Background()

	match := testutil.CreateMatch(t, db)
	poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, time.Now().Add(time.Hour), "A", "B")

	view, err := svc.ClosePoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("ClosePoll() error = %v", err)
	}
	if view.Status != models.PollStatusClosed {
		t.Errorf("status = %s, want CLOSED", view.Status)
	}

	if _, err := svc.ClosePoll(ctx, poll.ID); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("second ClosePoll() error = %v, want INVALID_STATE", err)
	}
	if _, err := svc.ClosePoll(ctx, 9999); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("ClosePoll(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestDeletePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	svc := NewPollService(store)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "u", 0)
	match := testutil.CreateMatch(t, db)
	poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, time.Now().Add(time.Hour), "A", "B")
	testutil.CreateVote(t, db, user.ID, poll.ID, poll.Options[0].ID)

	if err := svc.DeletePoll(ctx, poll.ID); err != nil {
		t.Fatalf("DeletePoll() error = %v", err)
	}
	if got, _ := store.Polls.GetByID(ctx, poll.ID); got != nil {
		t.Errorf("poll still present after delete")
	}
	if err := svc.DeletePoll(ctx, poll.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second DeletePoll() error = %v, want NOT_FOUND", err)
	}
}

func TestCloseExpiredPolls(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPollService(repository.NewStore(db))

	match := testutil.CreateMatch(t, db)
	now := time.Now()
	testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, now.Add(-time.Minute), "A", "B")
	testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, now.Add(-time.Hour), "A", "B")
	testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, now.Add(time.Hour), "A", "B")

	closed, err := svc.CloseExpiredPolls(context.Background(), now)
	if err != nil {
		t.Fatalf("CloseExpiredPolls() error = %v", err)
	}
	if closed != 2 {
		t.Errorf("closed = %d, want 2", closed)
	}
}
