package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository/dao"
)

type TerrainDAO interface {
	Insert(ctx context.Context, terrain dao.Terrain) (dao.Terrain, error)
	Update(ctx context.Context, terrain dao.Terrain) (dao.Terrain, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Terrain, error)
	FindByName(ctx context.Context, name string) (dao.Terrain, error)
	List(ctx context.Context) ([]dao.Terrain, error)
}

type TerrainRepository struct {
	dao TerrainDAO
}

func NewTerrainRepository(dao TerrainDAO) *TerrainRepository {
	return &TerrainRepository{
		dao: dao,
	}
}

func (r *TerrainRepository) Create(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error) {
	created, err := r.dao.Insert(ctx, terrainToDAO(terrain))
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return terrainToDomain(created), nil
}

func (r *TerrainRepository) Update(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error) {
	updated, err := r.dao.Update(ctx, terrainToDAO(terrain))
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return terrainToDomain(updated), nil
}

func (r *TerrainRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *TerrainRepository) FindByID(ctx context.Context, id uint) (domain.Terrain, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return terrainToDomain(found), nil
}

func (r *TerrainRepository) FindByName(ctx context.Context, name string) (domain.Terrain, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return terrainToDomain(found), nil
}

func (r *TerrainRepository) List(ctx context.Context) ([]domain.Terrain, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	terrains := make([]domain.Terrain, len(found))
	for i, t := range found {
		terrains[i] = terrainToDomain(t)
	}

	return terrains, nil
}

type ReservationRepository struct {
	db  *gorm.DB
	dao *dao.ReservationDAO
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{
		db:  db,
		dao: dao.NewReservationDAO(db),
	}
}

// Book inserts the reservation unless another reservation of the same terrain
// overlaps it. The check and the insert share one transaction and the terrain
// row is locked where the database supports it.
func (r *ReservationRepository) Book(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error) {
	var booked dao.Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := dao.NewTerrainDAO(tx).LockByID(ctx, reservation.TerrainID); err != nil {
			return fmt.Errorf("terrains.LockByID -> %w", err)
		}
		if _, err := dao.NewUnitDAO(tx).FindByID(ctx, reservation.UnitID); err != nil {
			return fmt.Errorf("units.FindByID -> %w", err)
		}

		reservations := dao.NewReservationDAO(tx)
		n, err := reservations.CountOverlapping(ctx, reservation.TerrainID, reservation.StartTime.UTC(), reservation.EndTime.UTC())
		if err != nil {
			return fmt.Errorf("reservations.CountOverlapping -> %w", err)
		}
		if n > 0 {
			return ErrReservationConflict
		}

		booked, err = reservations.Insert(ctx, reservationToDAO(reservation))
		if err != nil {
			return fmt.Errorf("reservations.Insert -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	return reservationToDomain(booked), nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uint) (domain.Reservation, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return reservationToDomain(found), nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uint, status domain.ReservationStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ReservationRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Reservation, error) {
	found, err := r.dao.ListOverlapping(ctx, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListOverlapping -> %w", err)
	}

	return reservationsToDomain(found), nil
}

func (r *ReservationRepository) ListByTerrain(ctx context.Context, terrainID uint) ([]domain.Reservation, error) {
	found, err := r.dao.ListByTerrain(ctx, terrainID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByTerrain -> %w", err)
	}

	return reservationsToDomain(found), nil
}

func (r *ReservationRepository) ListByUnit(ctx context.Context, unitID uint) ([]domain.Reservation, error) {
	found, err := r.dao.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByUnit -> %w", err)
	}

	return reservationsToDomain(found), nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return reservationsToDomain(found), nil
}

func terrainToDomain(t dao.Terrain) domain.Terrain {
	polygon := make([]domain.Coordinate, len(t.Polygon))
	for i, c := range t.Polygon {
		polygon[i] = domain.Coordinate(c)
	}

	images := make([]string, len(t.ImageURLs))
	copy(images, t.ImageURLs)

	return domain.Terrain{
		ID:          t.ID,
		Name:        t.Name,
		Tags:        t.Tags,
		CenterLat:   t.CenterLat,
		CenterLon:   t.CenterLon,
		Polygon:     polygon,
		Description: t.Description,
		ImageURLs:   images,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func terrainToDAO(t domain.Terrain) dao.Terrain {
	polygon := make([][2]float64, len(t.Polygon))
	for i, c := range t.Polygon {
		polygon[i] = c
	}

	return dao.Terrain{
		ID:          t.ID,
		Name:        t.Name,
		Tags:        t.Tags,
		CenterLat:   t.CenterLat,
		CenterLon:   t.CenterLon,
		Polygon:     polygon,
		Description: t.Description,
		ImageURLs:   append([]string{}, t.ImageURLs...),
	}
}

func reservationToDomain(r dao.Reservation) domain.Reservation {
	return domain.Reservation{
		ID:        r.ID,
		TerrainID: r.TerrainID,
		UnitID:    r.UnitID,
		Terrain:   terrainToDomain(r.Terrain),
		Unit:      unitToDomain(r.Unit),
		StartTime: r.StartTime.UTC(),
		EndTime:   r.EndTime.UTC(),
		Duration:  r.Duration,
		Status:    domain.ReservationStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func reservationsToDomain(found []dao.Reservation) []domain.Reservation {
	reservations := make([]domain.Reservation, len(found))
	for i, r := range found {
		reservations[i] = reservationToDomain(r)
	}

	return reservations
}

func reservationToDAO(r domain.Reservation) dao.Reservation {
	status := r.Status
	if status == "" {
		status = domain.ReservationPending
	}

	return dao.Reservation{
		ID:        r.ID,
		TerrainID: r.TerrainID,
		UnitID:    r.UnitID,
		StartTime: r.StartTime.UTC(),
		EndTime:   r.EndTime.UTC(),
		Duration:  r.Duration,
		Status:    string(status),
	}
}
