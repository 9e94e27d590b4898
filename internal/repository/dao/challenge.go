package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Challenge struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"uniqueIndex;not null"`
	Description  string `gorm:"not null;default:''"`
	Points       int    `gorm:"not null"`
	IsFungo      bool   `gorm:"not null;default:false"`
	RewardTokens int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ChallengeDAO struct {
	db *gorm.DB
}

func NewChallengeDAO(db *gorm.DB) *ChallengeDAO {
	return &ChallengeDAO{
		db: db,
	}
}

func (d *ChallengeDAO) Insert(ctx context.Context, challenge Challenge) (Challenge, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&challenge)
	if result.Error != nil {
		return Challenge{}, translate(result.Error, nil, ErrChallengeNameExists)
	}

	return challenge, nil
}

func (d *ChallengeDAO) Update(ctx context.Context, challenge Challenge) (Challenge, error) {
	result := d.db.WithContext(ctx).Model(&Challenge{ID: challenge.ID}).
		Updates(map[string]any{
			"name":          challenge.Name,
			"description":   challenge.Description,
			"points":        challenge.Points,
			"is_fungo":      challenge.IsFungo,
			"reward_tokens": challenge.RewardTokens,
		})
	if result.Error != nil {
		return Challenge{}, translate(result.Error, nil, ErrChallengeNameExists)
	}
	if result.RowsAffected == 0 {
		return Challenge{}, ErrChallengeNotFound
	}

	return d.FindByID(ctx, challenge.ID)
}

func (d *ChallengeDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Challenge{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChallengeNotFound
	}

	return nil
}

func (d *ChallengeDAO) FindByID(ctx context.Context, id uint) (Challenge, error) {
	var challenge Challenge

	result := d.db.WithContext(ctx).First(&challenge, id)
	if result.Error != nil {
		return Challenge{}, translate(result.Error, ErrChallengeNotFound, nil)
	}

	return challenge, nil
}

func (d *ChallengeDAO) FindByName(ctx context.Context, name string) (Challenge, error) {
	var challenge Challenge

	result := d.db.WithContext(ctx).First(&challenge, "name = ?", name)
	if result.Error != nil {
		return Challenge{}, translate(result.Error, ErrChallengeNotFound, nil)
	}

	return challenge, nil
}

func (d *ChallengeDAO) List(ctx context.Context) ([]Challenge, error) {
	var challenges []Challenge

	result := d.db.WithContext(ctx).Order("name").Find(&challenges)
	if result.Error != nil {
		return nil, result.Error
	}

	return challenges, nil
}
