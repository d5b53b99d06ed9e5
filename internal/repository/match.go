package repository

import (
	"context"
	"errors"

	"ipl-prediction-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context, status string, page Page) ([]models.Match, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Match{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var matches []models.Match
	err := page.apply(q).
		Preload("HomeTeam").
		Preload("AwayTeam").
		Order("start_time ASC").
		Order("id ASC").
		Find(&matches).Error
	return matches, total, err
}

func (r *MatchRepository) GetByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Preload("HomeTeam").
		Preload("AwayTeam").
		First(&match, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(match).Error
}

func (r *MatchRepository) Save(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(match).Error
}

// Delete removes the match and its comments. Callers run it inside a transaction
// and make sure no polls reference the match.
func (r *MatchRepository) Delete(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("match_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&models.Match{}, id)
	return result.RowsAffected, result.Error
}

func (r *MatchRepository) CountByTeam(ctx context.Context, teamID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Match{}).
		Where("home_team_id = ? OR away_team_id = ?", teamID, teamID).
		Count(&count).Error
	return count, err
}
