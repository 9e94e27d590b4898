package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Unit struct {
	ID      uint     `gorm:"primaryKey"`
	Name    string   `gorm:"uniqueIndex;not null"`
	SubCamp string   `gorm:"column:sottocampo;not null;index"`
	Patrols []Patrol `gorm:"foreignKey:UnitID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// UnitDependents counts the rows that keep a unit from being deleted.
type UnitDependents struct {
	Patrols      int64
	Users        int64
	Reservations int64
}

func (d UnitDependents) Any() bool {
	return d.Patrols+d.Users+d.Reservations > 0
}

type UnitDAO struct {
	db *gorm.DB
}

func NewUnitDAO(db *gorm.DB) *UnitDAO {
	return &UnitDAO{
		db: db,
	}
}

func (d *UnitDAO) Insert(ctx context.Context, unit Unit) (Unit, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&unit)
	if result.Error != nil {
		return Unit{}, translate(result.Error, nil, ErrUnitNameExists)
	}

	return unit, nil
}

func (d *UnitDAO) Update(ctx context.Context, unit Unit) (Unit, error) {
	result := d.db.WithContext(ctx).Model(&Unit{ID: unit.ID}).
		Updates(map[string]any{"name": unit.Name, "sottocampo": unit.SubCamp})
	if result.Error != nil {
		return Unit{}, translate(result.Error, nil, ErrUnitNameExists)
	}
	if result.RowsAffected == 0 {
		return Unit{}, ErrUnitNotFound
	}

	return d.FindByID(ctx, unit.ID)
}

func (d *UnitDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Unit{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUnitNotFound
	}

	return nil
}

func (d *UnitDAO) FindByID(ctx context.Context, id uint) (Unit, error) {
	var unit Unit

	result := d.db.WithContext(ctx).First(&unit, id)
	if result.Error != nil {
		return Unit{}, translate(result.Error, ErrUnitNotFound, nil)
	}

	return unit, nil
}

func (d *UnitDAO) FindByName(ctx context.Context, name string) (Unit, error) {
	var unit Unit

	result := d.db.WithContext(ctx).First(&unit, "name = ?", name)
	if result.Error != nil {
		return Unit{}, translate(result.Error, ErrUnitNotFound, nil)
	}

	return unit, nil
}

func (d *UnitDAO) List(ctx context.Context) ([]Unit, error) {
	var units []Unit

	result := d.db.WithContext(ctx).Order("name").Find(&units)
	if result.Error != nil {
		return nil, result.Error
	}

	return units, nil
}

func (d *UnitDAO) ListSubCamps(ctx context.Context) ([]string, error) {
	var subCamps []string

	result := d.db.WithContext(ctx).Model(&Unit{}).Distinct("sottocampo").Order("sottocampo").Pluck("sottocampo", &subCamps)
	if result.Error != nil {
		return nil, result.Error
	}

	return subCamps, nil
}

func (d *UnitDAO) CountDependents(ctx context.Context, id uint) (UnitDependents, error) {
	var deps UnitDependents
	db := d.db.WithContext(ctx)

	if err := db.Model(&Patrol{}).Where("unit_id = ?", id).Count(&deps.Patrols).Error; err != nil {
		return UnitDependents{}, err
	}
	if err := db.Model(&User{}).Where("unit_id = ?", id).Count(&deps.Users).Error; err != nil {
		return UnitDependents{}, err
	}
	if err := db.Model(&Reservation{}).Where("unit_id = ?", id).Count(&deps.Reservations).Error; err != nil {
		return UnitDependents{}, err
	}

	return deps, nil
}
