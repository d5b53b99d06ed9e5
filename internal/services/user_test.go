package services

import (
	"context"
	"testing"
	"time"

	"ipl-prediction-backend/internal/events"
	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/internal/testutil"
	"ipl-prediction-backend/pkg/errors"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	auth := NewAuthService(repository.NewStore(db), "test-secret", time.Hour)
	ctx := context.Background()

	reg, err := auth.Register(ctx, "virat", "password18", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.User.DisplayName != "virat" || reg.User.Role != models.RoleUser {
		t.Errorf("user = %+v, want display name defaulted and USER role", reg.User)
	}

	if _, err := auth.Register(ctx, "virat", "other", ""); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want CONFLICT", err)
	}

	login, err := auth.Login(ctx, "virat", "password18")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	id, err := auth.ValidateToken(login.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if id.UserID != reg.User.ID || id.IsAdmin() {
		t.Errorf("identity = %+v, want user %d without admin", id, reg.User.ID)
	}

	if _, err := auth.Login(ctx, "virat", "wrong"); !errors.Is(err, errors.ErrUnauthenticated) {
		t.Errorf("bad password Login() error = %v, want UNAUTHENTICATED", err)
	}
	if _, err := auth.Login(ctx, "nobody", "x"); !errors.Is(err, errors.ErrUnauthenticated) {
		t.Errorf("unknown user Login() error = %v, want UNAUTHENTICATED", err)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	issuer := NewAuthService(store, "one", time.Hour)
	verifier := NewAuthService(store, "two", time.Hour)

	token, err := issuer.GenerateToken(1, models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := verifier.ValidateToken(token); !errors.Is(err, errors.ErrUnauthenticated) {
		t.Errorf("ValidateToken() error = %v, want UNAUTHENTICATED", err)
	}
	if _, err := verifier.ValidateToken("not-a-token"); !errors.Is(err, errors.ErrUnauthenticated) {
		t.Errorf("ValidateToken(garbage) error = %v, want UNAUTHENTICATED", err)
	}
}

func TestCreateAdminPromotesExistingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	auth := NewAuthService(repository.NewStore(db), "s", time.Hour)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "rohit", "hitman45", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := auth.CreateAdmin(ctx, "rohit", "wrong"); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("CreateAdmin(wrong password) error = %v, want CONFLICT", err)
	}

	admin, err := auth.CreateAdmin(ctx, "rohit", "hitman45")
	if err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}
	if !admin.IsAdmin() {
		t.Errorf("role = %s, want ADMIN", admin.Role)
	}

	fresh, err := auth.CreateAdmin(ctx, "root", "rootpass")
	if err != nil || !fresh.IsAdmin() {
		t.Errorf("CreateAdmin(new) = %+v, %v", fresh, err)
	}
}

func TestProfileAndLeaderboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	users := NewUserService(store)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", 0)
	bob := testutil.CreateUser(t, db, "bob", 0)
	team := testutil.CreateTeam(t, db, "Sunrisers", "SRH")
	match := testutil.CreateMatch(t, db)
	p1 := testutil.CreatePoll(t, db, match.ID, models.PollStatusClosed, time.Now(), "A", "B")
	p2 := testutil.CreatePoll(t, db, match.ID, models.PollStatusClosed, time.Now(), "A", "B")
	testutil.CreateVote(t, db, alice.ID, p1.ID, p1.Options[0].ID)
	testutil.CreateVote(t, db, alice.ID, p2.ID, p2.Options[1].ID)
	testutil.CreateVote(t, db, bob.ID, p1.ID, p1.Options[1].ID)

	settlement := NewSettlementService(store, NewRankingService(store), nil, 10)
	if _, err := settlement.SettlePoll(ctx, SettleInput{PollID: p1.ID, CorrectOptionID: p1.Options[0].ID}); err != nil {
		t.Fatalf("SettlePoll() error = %v", err)
	}

	profile, err := users.GetProfile(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.TotalVotes != 2 || profile.CorrectVotes != 1 || profile.Points != 10 {
		t.Errorf("profile = %d votes, %d correct, %d points; want 2, 1, 10", profile.TotalVotes, profile.CorrectVotes, profile.Points)
	}
	if profile.Rank == nil || *profile.Rank != 1 {
		t.Errorf("rank = %v, want 1", profile.Rank)
	}

	name := "Alice K"
	updated, err := users.UpdateProfile(ctx, alice.ID, ProfileUpdate{DisplayName: &name, FavouriteTeamID: &team.ID})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.DisplayName != name || updated.FavouriteTeamID == nil || *updated.FavouriteTeamID != team.ID {
		t.Errorf("profile = %+v", updated.User)
	}

	missing := uint(9999)
	if _, err := users.UpdateProfile(ctx, alice.ID, ProfileUpdate{FavouriteTeamID: &missing}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateProfile(unknown team) error = %v, want NOT_FOUND", err)
	}

	board, total, err := users.Leaderboard(ctx, repository.Page{})
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if total != 2 || board[0].ID != alice.ID || board[1].ID != bob.ID {
		t.Errorf("leaderboard = %+v", board)
	}
}

func TestNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	svc := NewNotificationService(store)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", 0)
	bob := testutil.CreateUser(t, db, "bob", 0)
	match := testutil.CreateMatch(t, db)

	dispatcher := events.NewNotificationDispatcher(store)
	for i := 0; i < 2; i++ {
		poll := testutil.CreatePoll(t, db, match.ID, models.PollStatusSettled, time.Now(), "A", "B")
		event := events.PollSettled{PollID: poll.ID, MatchID: match.ID, Question: poll.Question, VoterIDs: []uint{alice.ID}}
		if err := dispatcher.Deliver(ctx, event); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
	}

	count, _ := svc.UnreadCount(ctx, alice.ID)
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}

	list, _, _ := svc.List(ctx, alice.ID, true, repository.Page{})
	if _, err := svc.MarkRead(ctx, bob.ID, list[0].ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("MarkRead(other user) error = %v, want NOT_FOUND", err)
	}

	read, err := svc.MarkRead(ctx, alice.ID, list[0].ID)
	if err != nil || !read.Read {
		t.Fatalf("MarkRead() = %+v, %v", read, err)
	}
	if _, err := svc.MarkRead(ctx, alice.ID, list[0].ID); err != nil {
		t.Errorf("repeated MarkRead() error = %v", err)
	}

	unread, total, _ := svc.List(ctx, alice.ID, true, repository.Page{})
	if total != 1 || len(unread) != 1 {
		t.Errorf("unread list = %d of %d, want 1 of 1", len(unread), total)
	}

	updated, err := svc.MarkAllRead(ctx, alice.ID)
	if err != nil || updated != 1 {
		t.Errorf("MarkAllRead() = %d, %v; want 1, nil", updated, err)
	}
	if count, _ := svc.UnreadCount(ctx, alice.ID); count != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", count)
	}
}
