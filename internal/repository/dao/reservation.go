package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Reservation struct {
	ID        uint      `gorm:"primaryKey"`
	TerrainID uint      `gorm:"not null;index:idx_reservation_span,priority:1"`
	Terrain   Terrain   `gorm:"foreignKey:TerrainID"`
	UnitID    uint      `gorm:"not null;index"`
	Unit      Unit      `gorm:"foreignKey:UnitID"`
	StartTime time.Time `gorm:"not null;index:idx_reservation_span,priority:2"`
	EndTime   time.Time `gorm:"not null"`
	Duration  int       `gorm:"not null"` // hours
	Status    string    `gorm:"not null;default:'PENDING'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ReservationDAO struct {
	db *gorm.DB
}

func NewReservationDAO(db *gorm.DB) *ReservationDAO {
	return &ReservationDAO{
		db: db,
	}
}

func (d *ReservationDAO) Insert(ctx context.Context, reservation Reservation) (Reservation, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&reservation)
	if result.Error != nil {
		return Reservation{}, result.Error
	}

	return d.FindByID(ctx, reservation.ID)
}

func (d *ReservationDAO) FindByID(ctx context.Context, id uint) (Reservation, error) {
	var reservation Reservation

	result := d.db.WithContext(ctx).Preload("Unit").Preload("Terrain").First(&reservation, id)
	if result.Error != nil {
		return Reservation{}, translate(result.Error, ErrReservationNotFound, nil)
	}

	return reservation, nil
}

func (d *ReservationDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Reservation{ID: id}).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func (d *ReservationDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Reservation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListOverlapping returns reservations of any terrain intersecting [start, end)
// under the half-open rule.
func (d *ReservationDAO) ListOverlapping(ctx context.Context, start, end time.Time) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).Preload("Unit").
		Where("start_time < ? AND end_time > ?", end, start).
		Order("terrain_id").Order("start_time").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

func (d *ReservationDAO) CountOverlapping(ctx context.Context, terrainID uint, start, end time.Time) (int64, error) {
	var n int64

	result := d.db.WithContext(ctx).Model(&Reservation{}).
		Where("terrain_id = ? AND start_time < ? AND end_time > ?", terrainID, end, start).
		Count(&n)
	if result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}

func (d *ReservationDAO) ListByTerrain(ctx context.Context, terrainID uint) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).Preload("Unit").Preload("Terrain").
		Where("terrain_id = ?", terrainID).
		Order("start_time").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

func (d *ReservationDAO) ListByUnit(ctx context.Context, unitID uint) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).Preload("Unit").Preload("Terrain").
		Where("unit_id = ?", unitID).
		Order("start_time").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

func (d *ReservationDAO) List(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).Preload("Unit").Preload("Terrain").Order("start_time").Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}
