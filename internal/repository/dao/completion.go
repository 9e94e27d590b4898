package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Completion struct {
	ID          uint      `gorm:"primaryKey"`
	PatrolID    uint      `gorm:"not null;uniqueIndex:idx_completion_pair"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_completion_pair;index"`
	Patrol      Patrol    `gorm:"foreignKey:PatrolID"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`
	CompletedAt time.Time `gorm:"not null;index"`
}

type CompletionDAO struct {
	db *gorm.DB
}

func NewCompletionDAO(db *gorm.DB) *CompletionDAO {
	return &CompletionDAO{
		db: db,
	}
}

func (d *CompletionDAO) Insert(ctx context.Context, completion Completion) (Completion, error) {
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now().UTC()
	}

	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&completion)
	if result.Error != nil {
		return Completion{}, translate(result.Error, nil, ErrAlreadyCompleted)
	}

	return completion, nil
}

func (d *CompletionDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Completion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompletionNotFound
	}

	return nil
}

func (d *CompletionDAO) DeleteByPatrol(ctx context.Context, patrolID uint) (int64, error) {
	result := d.db.WithContext(ctx).Where("patrol_id = ?", patrolID).Delete(&Completion{})
	return result.RowsAffected, result.Error
}

func (d *CompletionDAO) DeleteByChallenge(ctx context.Context, challengeID uint) (int64, error) {
	result := d.db.WithContext(ctx).Where("challenge_id = ?", challengeID).Delete(&Completion{})
	return result.RowsAffected, result.Error
}

func (d *CompletionDAO) FindByID(ctx context.Context, id uint) (Completion, error) {
	var completion Completion

	result := d.db.WithContext(ctx).Preload("Patrol.Unit").Preload("Challenge").First(&completion, id)
	if result.Error != nil {
		return Completion{}, translate(result.Error, ErrCompletionNotFound, nil)
	}

	return completion, nil
}

func (d *CompletionDAO) Exists(ctx context.Context, patrolID, challengeID uint) (bool, error) {
	n, err := d.Count(ctx, patrolID, challengeID)
	return n > 0, err
}

func (d *CompletionDAO) Count(ctx context.Context, patrolID, challengeID uint) (int64, error) {
	var n int64

	result := d.db.WithContext(ctx).Model(&Completion{}).
		Where("patrol_id = ? AND challenge_id = ?", patrolID, challengeID).
		Count(&n)
	if result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}

func (d *CompletionDAO) CountByChallenge(ctx context.Context, challengeID uint) (int64, error) {
	var n int64

	result := d.db.WithContext(ctx).Model(&Completion{}).Where("challenge_id = ?", challengeID).Count(&n)
	if result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}

// PatrolIDsByChallenge lists every patrol holding at least one completion of
// the challenge.
func (d *CompletionDAO) PatrolIDsByChallenge(ctx context.Context, challengeID uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).Model(&Completion{}).
		Where("challenge_id = ?", challengeID).
		Distinct("patrol_id").
		Order("patrol_id").
		Pluck("patrol_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *CompletionDAO) ListLatest(ctx context.Context, limit int) ([]Completion, error) {
	var completions []Completion

	result := d.db.WithContext(ctx).
		Preload("Patrol.Unit").
		Preload("Challenge").
		Order("completed_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&completions)
	if result.Error != nil {
		return nil, result.Error
	}

	return completions, nil
}
