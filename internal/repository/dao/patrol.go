package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Patrol struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"uniqueIndex;not null"`
	Leader string `gorm:"column:capo_pattuglia;not null"`
	UnitID uint   `gorm:"not null;index"`
	Unit   Unit   `gorm:"foreignKey:UnitID"`
	Score  int    `gorm:"not null;default:0"` // sum of completed challenge points

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PatrolDAO struct {
	db *gorm.DB
}

func NewPatrolDAO(db *gorm.DB) *PatrolDAO {
	return &PatrolDAO{
		db: db,
	}
}

// Insert always stores a zero score; points only arrive through completions.
func (d *PatrolDAO) Insert(ctx context.Context, patrol Patrol) (Patrol, error) {
	patrol.Score = 0
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&patrol)
	if result.Error != nil {
		return Patrol{}, translate(result.Error, nil, ErrPatrolNameExists)
	}

	return d.FindByID(ctx, patrol.ID)
}

// Update changes the descriptive fields. The score column is never touched here.
func (d *PatrolDAO) Update(ctx context.Context, patrol Patrol) (Patrol, error) {
	result := d.db.WithContext(ctx).Model(&Patrol{ID: patrol.ID}).
		Updates(map[string]any{
			"name":           patrol.Name,
			"capo_pattuglia": patrol.Leader,
			"unit_id":        patrol.UnitID,
		})
	if result.Error != nil {
		return Patrol{}, translate(result.Error, nil, ErrPatrolNameExists)
	}
	if result.RowsAffected == 0 {
		return Patrol{}, ErrPatrolNotFound
	}

	return d.FindByID(ctx, patrol.ID)
}

func (d *PatrolDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Patrol{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPatrolNotFound
	}

	return nil
}

// AddScore applies delta as an in-database increment.
func (d *PatrolDAO) AddScore(ctx context.Context, id uint, delta int) error {
	result := d.db.WithContext(ctx).Model(&Patrol{}).Where("id = ?", id).
		UpdateColumn("score", gorm.Expr("score + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPatrolNotFound
	}

	return nil
}

func (d *PatrolDAO) FindByID(ctx context.Context, id uint) (Patrol, error) {
	var patrol Patrol

	result := d.db.WithContext(ctx).Preload("Unit").First(&patrol, id)
	if result.Error != nil {
		return Patrol{}, translate(result.Error, ErrPatrolNotFound, nil)
	}

	return patrol, nil
}

func (d *PatrolDAO) FindByName(ctx context.Context, name string) (Patrol, error) {
	var patrol Patrol

	result := d.db.WithContext(ctx).Preload("Unit").First(&patrol, "name = ?", name)
	if result.Error != nil {
		return Patrol{}, translate(result.Error, ErrPatrolNotFound, nil)
	}

	return patrol, nil
}

func (d *PatrolDAO) List(ctx context.Context) ([]Patrol, error) {
	var patrols []Patrol

	result := d.db.WithContext(ctx).Preload("Unit").Order("name").Find(&patrols)
	if result.Error != nil {
		return nil, result.Error
	}

	return patrols, nil
}

// ListRanking returns patrols by descending score, optionally restricted to
// one sub-camp. Ties are broken by name so the order is stable.
func (d *PatrolDAO) ListRanking(ctx context.Context, subCamp string) ([]Patrol, error) {
	var patrols []Patrol

	query := d.db.WithContext(ctx).Preload("Unit").
		Joins("JOIN units ON units.id = patrols.unit_id")
	if subCamp != "" {
		query = query.Where("units.sottocampo = ?", subCamp)
	}

	result := query.Order("patrols.score DESC").Order("patrols.name").Find(&patrols)
	if result.Error != nil {
		return nil, result.Error
	}

	return patrols, nil
}
