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

func TestTeamLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	teams := NewTeamService(store)
	ctx := context.Background()

	csk, err := teams.CreateTeam(ctx, TeamInput{Name: "Chennai Super Kings", ShortName: "csk"})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}
	if csk.ShortName != "CSK" {
		t.Errorf("ShortName = %q, want CSK", csk.ShortName)
	}

	if _, err := teams.CreateTeam(ctx, TeamInput{Name: "Chennai Super Kings", ShortName: "CSK2"}); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("duplicate CreateTeam() error = %v, want CONFLICT", err)
	}
	if _, err := teams.CreateTeam(ctx, TeamInput{Name: "", ShortName: "X"}); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("blank CreateTeam() error = %v, want INVALID_ARGUMENT", err)
	}

	mi, _ := teams.CreateTeam(ctx, TeamInput{Name: "Mumbai Indians", ShortName: "MI"})
	matches := NewMatchService(store)
	if _, err := matches.CreateMatch(ctx, MatchInput{HomeTeamID: csk.ID, AwayTeamID: mi.ID, StartTime: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}

	if err := teams.DeleteTeam(ctx, csk.ID); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("DeleteTeam(in use) error = %v, want INVALID_STATE", err)
	}

	rcb, _ := teams.CreateTeam(ctx, TeamInput{Name: "Royal Challengers", ShortName: "RCB"})
	if err := teams.DeleteTeam(ctx, rcb.ID); err != nil {
		t.Errorf("DeleteTeam() error = %v", err)
	}
	if err := teams.DeleteTeam(ctx, rcb.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second DeleteTeam() error = %v, want NOT_FOUND", err)
	}
}

func TestSeedTeams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	teams := NewTeamService(repository.NewStore(db))
	ctx := context.Background()

	seed := []TeamInput{
		{Name: "Kolkata Knight Riders", ShortName: "KKR"},
		{Name: "Rajasthan Royals", ShortName: "RR"},
	}
	created, updated, err := teams.SeedTeams(ctx, seed)
	if err != nil || created != 2 || updated != 0 {
		t.Fatalf("first SeedTeams() = %d, %d, %v; want 2, 0, nil", created, updated, err)
	}

	seed[1].LogoURL = "https://example.com/rr.png"
	created, updated, err = teams.SeedTeams(ctx, seed)
	if err != nil || created != 0 || updated != 2 {
		t.Fatalf("second SeedTeams() = %d, %d, %v; want 0, 2, nil", created, updated, err)
	}

	list, _ := teams.ListTeams(ctx)
	if len(list) != 2 {
		t.Errorf("teams = %d, want 2", len(list))
	}
}

func TestMatchRules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewStore(db)
	svc := NewMatchService(store)
	ctx := context.Background()

	home := testutil.CreateTeam(t, db, "Home", "HOM")
	away := testutil.CreateTeam(t, db, "Away", "AWY")
	other := testutil.CreateTeam(t, db, "Other", "OTH")
	start := time.Now().Add(24 * time.Hour)

	if _, err := svc.CreateMatch(ctx, MatchInput{HomeTeamID: home.ID, AwayTeamID: home.ID, StartTime: start}); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("same-team CreateMatch() error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := svc.CreateMatch(ctx, MatchInput{HomeTeamID: home.ID, AwayTeamID: 9999, StartTime: start}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown-team CreateMatch() error = %v, want NOT_FOUND", err)
	}

	match, err := svc.CreateMatch(ctx, MatchInput{HomeTeamID: home.ID, AwayTeamID: away.ID, Venue: "Eden Gardens", StartTime: start})
	if err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	if match.HomeTeam.Name != "Home" || match.AwayTeam.Name != "Away" {
		t.Errorf("teams not loaded: %+v", match)
	}

	if _, err := svc.UpdateStatus(ctx, match.ID, models.MatchStatusCompleted, &other.ID); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("foreign winner error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := svc.UpdateStatus(ctx, match.ID, models.MatchStatusLive, &home.ID); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("winner on live match error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := svc.UpdateStatus(ctx, match.ID, "FINISHED", nil); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("unknown status error = %v, want INVALID_ARGUMENT", err)
	}

	done, err := svc.UpdateStatus(ctx, match.ID, models.MatchStatusCompleted, &away.ID)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if done.WinnerTeamID == nil || *done.WinnerTeamID != away.ID {
		t.Errorf("WinnerTeamID = %v, want %d", done.WinnerTeamID, away.ID)
	}

	testutil.CreatePoll(t, db, match.ID, models.PollStatusActive, start, "A", "B")
	if err := svc.DeleteMatch(ctx, match.ID); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("DeleteMatch(with polls) error = %v, want INVALID_STATE", err)
	}

	empty, _ := svc.CreateMatch(ctx, MatchInput{HomeTeamID: away.ID, AwayTeamID: other.ID, StartTime: start})
	if err := svc.DeleteMatch(ctx, empty.ID); err != nil {
		t.Errorf("DeleteMatch() error = %v", err)
	}
	if err := svc.DeleteMatch(ctx, empty.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second DeleteMatch() error = %v, want NOT_FOUND", err)
	}
}

func TestCommentPermissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCommentService(repository.NewStore(db))
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", 0)
	stranger := testutil.CreateUser(t, db, "stranger", 0)
	admin := testutil.CreateAdmin(t, db, "admin")
	match := testutil.CreateMatch(t, db)

	if _, err := svc.AddComment(ctx, author.ID, match.ID, "   "); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("blank AddComment() error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := svc.AddComment(ctx, author.ID, 9999, "hi"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("AddComment(missing match) error = %v, want NOT_FOUND", err)
	}

	first, err := svc.AddComment(ctx, author.ID, match.ID, "Dhoni finishes it")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	second, _ := svc.AddComment(ctx, author.ID, match.ID, "What a game")

	err = svc.DeleteComment(ctx, Identity{UserID: stranger.ID, Role: models.RoleUser}, first.ID)
	if !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("stranger DeleteComment() error = %v, want FORBIDDEN", err)
	}
	if err := svc.DeleteComment(ctx, Identity{UserID: author.ID, Role: models.RoleUser}, first.ID); err != nil {
		t.Errorf("author DeleteComment() error = %v", err)
	}
	if err := svc.DeleteComment(ctx, Identity{UserID: admin.ID, Role: models.RoleAdmin}, second.ID); err != nil {
		t.Errorf("admin DeleteComment() error = %v", err)
	}

	_, total, _ := svc.ListComments(ctx, match.ID, repository.Page{})
	if total != 0 {
		t.Errorf("comments left = %d, want 0", total)
	}
}
