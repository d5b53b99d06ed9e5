package repository

import (
	"context"
	"errors"
	"time"

	"ipl-prediction-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

type PollFilter struct {
	MatchID uint
	Status  string
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// Create inserts the poll together with its options.
func (r *PollRepository) Create(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *PollRepository) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		First(&poll, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// GetForUpdate loads the poll row with a row lock held until the surrounding
// transaction ends. Stores without row locks (SQLite) serialize writers instead.
func (r *PollRepository) GetForUpdate(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&poll, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *PollRepository) List(ctx context.Context, filter PollFilter, page Page) ([]models.Poll, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Poll{})
	if filter.MatchID != 0 {
		q = q.Where("match_id = ?", filter.MatchID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var polls []models.Poll
	err := page.apply(q).
		Preload("Options", orderedOptions).
		Order("created_at DESC").
		Order("id DESC").
		Find(&polls).Error
	return polls, total, err
}

func (r *PollRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Poll{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// TransitionStatus moves the poll to status only while it is still in from and
// reports how many rows changed.
func (r *PollRepository) TransitionStatus(ctx context.Context, id uint, from, to string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Poll{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *PollRepository) CountByMatch(ctx context.Context, matchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Poll{}).Where("match_id = ?", matchID).Count(&count).Error
	return count, err
}

// GetOption returns the option only when it belongs to pollID.
func (r *PollRepository) GetOption(ctx context.Context, pollID, optionID uint) (*models.Option, error) {
	var option models.Option
	err := r.db.WithContext(ctx).
		Where("id = ? AND poll_id = ?", optionID, pollID).
		First(&option).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *PollRepository) MarkOptionCorrect(ctx context.Context, optionID uint) error {
	return r.db.WithContext(ctx).Model(&models.Option{}).
		Where("id = ?", optionID).
		Update("is_correct", true).Error
}

// CloseExpired moves ACTIVE polls whose deadline is at or before now to CLOSED.
func (r *PollRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Poll{}).
		Where("status = ? AND poll_end_time <= ?", models.PollStatusActive, now).
		Update("status", models.PollStatusClosed)
	return result.RowsAffected, result.Error
}

// Delete removes a poll and everything hanging off it, children first.
// Callers run it inside a transaction.
func (r *PollRepository) Delete(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("poll_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("poll_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("poll_id = ?", id).Delete(&models.Option{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&models.Poll{}, id)
	return result.RowsAffected, result.Error
}
