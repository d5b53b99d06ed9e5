package repository

import (
	"context"
	"errors"

	"ipl-prediction-backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Standing is the slice of a user that ranking needs.
type Standing struct {
	ID     uint
	Points int
	Rank   *int `gorm:"column:user_rank"`
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID returns nil without error when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// AddPoints increments a user's points in place. It returns gorm.ErrRecordNotFound
// when the user row is gone.
func (r *UserRepository) AddPoints(ctx context.Context, id uint, delta int) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListStandings returns every user ordered by points descending, ties by id ascending.
func (r *UserRepository) ListStandings(ctx context.Context) ([]Standing, error) {
	var standings []Standing
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("id", "points", "user_rank").
		Order("points DESC").
		Order("id ASC").
		Find(&standings).Error
	return standings, err
}

func (r *UserRepository) UpdateRank(ctx context.Context, id uint, rank int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("user_rank", rank).Error
}

// Leaderboard lists users by rank; unranked users go last.
func (r *UserRepository) Leaderboard(ctx context.Context, page Page) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := page.apply(r.db.WithContext(ctx)).
		Order("CASE WHEN user_rank IS NULL THEN 1 ELSE 0 END").
		Order("user_rank ASC").
		Order("points DESC").
		Order("id ASC").
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepository) SumPoints(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}
