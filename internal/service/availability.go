package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidWindow       = fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	ErrInvalidDuration     = fmt.Errorf("%w: reservation duration out of range", ErrInvalidInput)
	ErrInvalidTimestamp    = fmt.Errorf("%w: unrecognised timestamp", ErrInvalidInput)
	ErrReservationConflict = repository.ErrReservationConflict
	ErrReservationNotFound = repository.ErrReservationNotFound
	ErrTerrainNotFound     = repository.ErrTerrainNotFound
	ErrNotReservationOwner = errors.New("reservation belongs to another unit")
)

type ReservationRepository interface {
	Book(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error)
	FindByID(ctx context.Context, id uint) (domain.Reservation, error)
	UpdateStatus(ctx context.Context, id uint, status domain.ReservationStatus) error
	Delete(ctx context.Context, id uint) error
	ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Reservation, error)
	ListByTerrain(ctx context.Context, terrainID uint) ([]domain.Reservation, error)
	ListByUnit(ctx context.Context, unitID uint) ([]domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
}

type TerrainLister interface {
	List(ctx context.Context) ([]domain.Terrain, error)
}

type ReservationService struct {
	repo     ReservationRepository
	terrains TerrainLister
	maxHours int
	loc      *time.Location
}

func NewReservationService(repo ReservationRepository, terrains TerrainLister, maxHours int, loc *time.Location) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}

	return &ReservationService{
		repo:     repo,
		terrains: terrains,
		maxHours: maxHours,
		loc:      loc,
	}
}

// Classify reports how much of window the reservations cover. Only the
// portion of each reservation inside the window counts.
func Classify(window domain.Window, reservations []domain.Reservation) domain.AvailabilityStatus {
	var covered time.Duration
	for _, r := range reservations {
		covered += window.Overlap(r.StartTime.UTC(), r.EndTime.UTC())
	}

	switch {
	case covered >= window.Duration():
		return domain.StatusBooked
	case covered > 0:
		return domain.StatusPartial
	default:
		return domain.StatusFree
	}
}

// Availability returns every terrain with its status over window and the
// reservations intersecting it.
func (s *ReservationService) Availability(ctx context.Context, window domain.Window) ([]domain.TerrainAvailability, error) {
	window = domain.NewWindow(window.Start, window.End)
	if !window.Valid() {
		return nil, ErrInvalidWindow
	}

	terrains, err := s.terrains.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.terrains.List -> %w", err)
	}

	overlapping, err := s.repo.ListOverlapping(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListOverlapping -> %w", err)
	}

	byTerrain := make(map[uint][]domain.Reservation)
	for _, r := range overlapping {
		if window.Overlaps(r.StartTime, r.EndTime) {
			byTerrain[r.TerrainID] = append(byTerrain[r.TerrainID], r)
		}
	}

	result := make([]domain.TerrainAvailability, 0, len(terrains))
	for _, t := range terrains {
		reservations := byTerrain[t.ID]

		slots := make([]domain.BookedSlot, 0, len(reservations))
		for _, r := range reservations {
			slots = append(slots, domain.BookedSlot{
				ID:        r.ID,
				StartTime: r.StartTime,
				EndTime:   r.EndTime,
				UnitName:  r.Unit.Name,
				Status:    r.Status,
			})
		}

		result = append(result, domain.TerrainAvailability{
			Terrain:      t,
			Status:       Classify(window, reservations),
			Reservations: slots,
		})
	}

	return result, nil
}

// Book creates a pending reservation of hours starting at start.
func (s *ReservationService) Book(ctx context.Context, terrainID, unitID uint, start time.Time, hours int) (domain.Reservation, error) {
	if hours < 1 || hours > s.maxHours {
		return domain.Reservation{}, fmt.Errorf("%w: must be between 1 and %d hours", ErrInvalidDuration, s.maxHours)
	}
	if start.IsZero() {
		return domain.Reservation{}, ErrInvalidTimestamp
	}

	start = start.UTC()
	booked, err := s.repo.Book(ctx, domain.Reservation{
		TerrainID: terrainID,
		UnitID:    unitID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours) * time.Hour),
		Duration:  hours,
		Status:    domain.ReservationPending,
	})
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.Book -> %w", err)
	}

	zap.L().Info("terrain booked",
		zap.String("terrain", booked.Terrain.Name),
		zap.String("unit", booked.Unit.Name),
		zap.Time("start", booked.StartTime),
		zap.Int("hours", booked.Duration))

	return booked, nil
}

func (s *ReservationService) Approve(ctx context.Context, id uint) error {
	if err := s.repo.UpdateStatus(ctx, id, domain.ReservationApproved); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

// Cancel deletes a reservation. Unit accounts may only cancel their own
// pending reservations; staff may delete any.
func (s *ReservationService) Cancel(ctx context.Context, user domain.User, id uint) error {
	if !user.Can(domain.RoleTech) {
		reservation, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		if user.UnitID == nil || *user.UnitID != reservation.UnitID || reservation.Status != domain.ReservationPending {
			return ErrNotReservationOwner
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ReservationService) ListByUnit(ctx context.Context, unitID uint) ([]domain.Reservation, error) {
	reservations, err := s.repo.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByUnit -> %w", err)
	}

	return reservations, nil
}

func (s *ReservationService) ListByTerrain(ctx context.Context, terrainID uint) ([]domain.Reservation, error) {
	reservations, err := s.repo.ListByTerrain(ctx, terrainID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByTerrain -> %w", err)
	}

	return reservations, nil
}

func (s *ReservationService) List(ctx context.Context) ([]domain.Reservation, error) {
	reservations, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return reservations, nil
}

// ParseTime parses value in the camp time zone. See ParseTimestamp.
func (s *ReservationService) ParseTime(value string) (time.Time, error) {
	return ParseTimestamp(value, s.loc)
}

func (s *ReservationService) Location() *time.Location {
	return s.loc
}

func (s *ReservationService) MaxHours() int {
	return s.maxHours
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339 values with an offset, or naive ISO 8601
// values which are read in loc. The result is always UTC.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidTimestamp
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}
