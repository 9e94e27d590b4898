package dao

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Terrain struct {
	ID          uint                          `gorm:"primaryKey"`
	Name        string                        `gorm:"uniqueIndex;not null"`
	Tags        string                        `gorm:"not null;default:''"` // comma separated
	CenterLat   float64                       `gorm:"not null"`
	CenterLon   float64                       `gorm:"not null"`
	Polygon     datatypes.JSONSlice[[2]float64] `gorm:"not null"`
	Description string
	ImageURLs   datatypes.JSONSlice[string] `gorm:"column:image_urls"`

	Reservations []Reservation `gorm:"foreignKey:TerrainID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Terrain) TableName() string {
	return "terrains"
}

type TerrainDAO struct {
	db *gorm.DB
}

func NewTerrainDAO(db *gorm.DB) *TerrainDAO {
	return &TerrainDAO{
		db: db,
	}
}

func (d *TerrainDAO) Insert(ctx context.Context, terrain Terrain) (Terrain, error) {
	normalizeTerrain(&terrain)

	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&terrain)
	if result.Error != nil {
		return Terrain{}, translate(result.Error, nil, ErrTerrainNameExists)
	}

	return terrain, nil
}

func (d *TerrainDAO) Update(ctx context.Context, terrain Terrain) (Terrain, error) {
	normalizeTerrain(&terrain)

	result := d.db.WithContext(ctx).Model(&Terrain{ID: terrain.ID}).
		Select("name", "tags", "center_lat", "center_lon", "polygon", "description", "image_urls").
		Updates(&terrain)
	if result.Error != nil {
		return Terrain{}, translate(result.Error, nil, ErrTerrainNameExists)
	}
	if result.RowsAffected == 0 {
		return Terrain{}, ErrTerrainNotFound
	}

	return d.FindByID(ctx, terrain.ID)
}

// Delete removes the terrain together with its reservations.
func (d *TerrainDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("terrain_id = ?", id).Delete(&Reservation{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Terrain{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTerrainNotFound
		}

		return nil
	})
}

func (d *TerrainDAO) FindByID(ctx context.Context, id uint) (Terrain, error) {
	var terrain Terrain

	result := d.db.WithContext(ctx).First(&terrain, id)
	if result.Error != nil {
		return Terrain{}, translate(result.Error, ErrTerrainNotFound, nil)
	}

	return terrain, nil
}

// LockByID reads the terrain row with FOR UPDATE where the dialect supports it,
// serialising concurrent bookings of the same terrain.
func (d *TerrainDAO) LockByID(ctx context.Context, id uint) (Terrain, error) {
	var terrain Terrain

	result := d.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&terrain, id)
	if result.Error != nil {
		return Terrain{}, translate(result.Error, ErrTerrainNotFound, nil)
	}

	return terrain, nil
}

func (d *TerrainDAO) FindByName(ctx context.Context, name string) (Terrain, error) {
	var terrain Terrain

	result := d.db.WithContext(ctx).First(&terrain, "name = ?", name)
	if result.Error != nil {
		return Terrain{}, translate(result.Error, ErrTerrainNotFound, nil)
	}

	return terrain, nil
}

func (d *TerrainDAO) List(ctx context.Context) ([]Terrain, error) {
	var terrains []Terrain

	result := d.db.WithContext(ctx).Order("name").Find(&terrains)
	if result.Error != nil {
		return nil, result.Error
	}

	return terrains, nil
}

func normalizeTerrain(t *Terrain) {
	if t.Polygon == nil {
		t.Polygon = datatypes.JSONSlice[[2]float64]{}
	}
	if t.ImageURLs == nil {
		t.ImageURLs = datatypes.JSONSlice[string]{}
	}
}
