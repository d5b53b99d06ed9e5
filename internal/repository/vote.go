package repository

import (
	"context"
	"errors"

	"ipl-prediction-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert inserts the vote or, when the user already voted on the poll, moves the
// existing vote to the new option. The stored row is returned.
func (r *VoteRepository) Upsert(ctx context.Context, vote *models.Vote) (*models.Vote, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "poll_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "updated_at"}),
	}).Create(vote).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndPoll(ctx, vote.UserID, vote.PollID)
}

func (r *VoteRepository) GetByUserAndPoll(ctx context.Context, userID, pollID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND poll_id = ?", userID, pollID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *VoteRepository) ListByPoll(ctx context.Context, pollID uint) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("id ASC").
		Find(&votes).Error
	return votes, err
}

func (r *VoteRepository) ListByUser(ctx context.Context, userID uint, page Page) ([]models.Vote, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Vote{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var votes []models.Vote
	err := page.apply(q).Order("created_at DESC").Order("id DESC").Find(&votes).Error
	return votes, total, err
}

func (r *VoteRepository) SetPoints(ctx context.Context, voteID uint, points int) error {
	return r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("id = ?", voteID).
		Update("points", points).Error
}

// CountByOption returns the number of votes per option id for a poll.
func (r *VoteRepository) CountByOption(ctx context.Context, pollID uint) (map[uint]int64, error) {
	var rows []struct {
		OptionID uint
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("option_id, COUNT(*) AS count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Count
	}
	return counts, nil
}

// UserStats reports how many votes a user cast and how many earned points.
func (r *VoteRepository) UserStats(ctx context.Context, userID uint) (total, correct int64, err error) {
	db := r.db.WithContext(ctx).Model(&models.Vote{})
	if err = db.Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND points > 0", userID).
		Count(&correct).Error
	return total, correct, err
}
