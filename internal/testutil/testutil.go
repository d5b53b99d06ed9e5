package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ipl-prediction-backend/internal/config"
	"ipl-prediction-backend/internal/database"
	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/pkg/logger"

	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Discard()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1)),
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string, points int) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		DisplayName:  username,
		Role:         models.RoleUser,
		Points:       points,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := CreateUser(t, db, username, 0)
	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("Failed to promote %s: %v", username, err)
	}
	user.Role = models.RoleAdmin
	return user
}

func CreateTeam(t *testing.T, db *gorm.DB, name, short string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, ShortName: short}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("Failed to create team %s: %v", name, err)
	}
	return team
}

// CreateMatch creates a match between two fresh teams.
func CreateMatch(t *testing.T, db *gorm.DB) *models.Match {
	t.Helper()
	n := dbSeq.Add(1)
	home := CreateTeam(t, db, fmt.Sprintf("Home %d", n), fmt.Sprintf("H%d", n))
	away := CreateTeam(t, db, fmt.Sprintf("Away %d", n), fmt.Sprintf("A%d", n))

	match := &models.Match{
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Venue:      "Wankhede",
		StartTime:  time.Now().Add(48 * time.Hour),
		Status:     models.MatchStatusUpcoming,
	}
	if err := db.Omit("HomeTeam", "AwayTeam").Create(match).Error; err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	return match
}

// CreatePoll creates a poll on matchID with one option per text.
func CreatePoll(t *testing.T, db *gorm.DB, matchID uint, status string, endTime time.Time, options ...string) *models.Poll {
	t.Helper()
	poll := &models.Poll{
		MatchID:     matchID,
		Question:    "Who wins the toss?",
		Status:      status,
		PollEndTime: endTime,
	}
	for _, text := range options {
		poll.Options = append(poll.Options, models.Option{Text: text})
	}
	if err := db.Create(poll).Error; err != nil {
		t.Fatalf("Failed to create poll: %v", err)
	}
	return poll
}

func CreateVote(t *testing.T, db *gorm.DB, userID, pollID, optionID uint) *models.Vote {
	t.Helper()
	vote := &models.Vote{UserID: userID, PollID: pollID, OptionID: optionID}
	if err := db.Create(vote).Error; err != nil {
		t.Fatalf("Failed to create vote: %v", err)
	}
	return vote
}
