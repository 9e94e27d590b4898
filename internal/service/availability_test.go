package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/testutil"
)

func at(hour int) time.Time {
	return time.Date(2026, 7, 15, hour, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	window := domain.NewWindow(at(10), at(14))

	tests := []struct {
		name         string
		reservations []domain.Reservation
		want         domain.AvailabilityStatus
	}{
		{"no reservations", nil, domain.StatusFree},
		{"exact cover", []domain.Reservation{{StartTime: at(10), EndTime: at(14)}}, domain.StatusBooked},
		{"larger than window", []domain.Reservation{{StartTime: at(8), EndTime: at(16)}}, domain.StatusBooked},
		{"half window", []domain.Reservation{{StartTime: at(10), EndTime: at(12)}}, domain.StatusPartial},
		{"two halves", []domain.Reservation{
			{StartTime: at(10), EndTime: at(12)},
			{StartTime: at(12), EndTime: at(14)},
		}, domain.StatusBooked},
		{"touching before", []domain.Reservation{{StartTime: at(8), EndTime: at(10)}}, domain.StatusFree},
		{"touching after", []domain.Reservation{{StartTime: at(14), EndTime: at(15)}}, domain.StatusFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(window, tt.reservations))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	tests := []struct {
		value string
		want  time.Time
	}{
		{"2026-07-15T14:00:00Z", at(14)},
		{"2026-07-15T16:00:00+02:00", at(14)},
		{"2026-07-15T16:00", at(14)},
		{"2026-07-15T16:00:00", at(14)},
		{"2026-07-15 16:00", at(14)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value, rome)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err = ParseTimestamp("domani", rome)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseTimestamp("", rome)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

type reservationFixture struct {
	svc     *ReservationService
	terrain dao.Terrain
	field   dao.Terrain
	unit    dao.Unit
	other   dao.Unit
}

func newReservationFixture(t *testing.T) reservationFixture {
	conn := testutil.NewDB(t)

	return reservationFixture{
		svc: NewReservationService(
			repository.NewReservationRepository(conn),
			repository.NewTerrainRepository(dao.NewTerrainDAO(conn)),
			4, time.UTC,
		),
		terrain: testutil.CreateTerrain(t, conn, "Radura"),
		field:   testutil.CreateTerrain(t, conn, "Campo Grande"),
		unit:    testutil.CreateUnit(t, conn, "Reparto Aquile", "Nord"),
		other:   testutil.CreateUnit(t, conn, "Reparto Falchi", "Sud"),
	}
}

func statusOf(t *testing.T, availability []domain.TerrainAvailability, terrainID uint) domain.TerrainAvailability {
	t.Helper()

	for _, a := range availability {
		if a.ID == terrainID {
			return a
		}
	}
	t.Fatalf("terrain %d missing from availability", terrainID)

	return domain.TerrainAvailability{}
}

func TestReservationService_AvailabilityScenario(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.terrain.ID, f.unit.ID, at(14), 2)
	require.NoError(t, err)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  domain.AvailabilityStatus
		slots int
	}{
		{"same window", at(14), at(16), domain.StatusBooked, 1},
		{"wider window", at(12), at(18), domain.StatusPartial, 1},
		{"next day", at(14).Add(24 * time.Hour), at(16).Add(24 * time.Hour), domain.StatusFree, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability, err := f.svc.Availability(ctx, domain.NewWindow(tt.start, tt.end))
			require.NoError(t, err)
			require.Len(t, availability, 2)

			radura := statusOf(t, availability, f.terrain.ID)
			assert.Equal(t, tt.want, radura.Status)
			assert.Len(t, radura.Reservations, tt.slots)
			if tt.slots > 0 {
				assert.Equal(t, "Reparto Aquile", radura.Reservations[0].UnitName)
				assert.Equal(t, domain.ReservationPending, radura.Reservations[0].Status)
			}

			assert.Equal(t, domain.StatusFree, statusOf(t, availability, f.field.ID).Status)
		})
	}
}

func TestReservationService_Availability_InvalidWindow(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.svc.Availability(context.Background(), domain.NewWindow(at(16), at(14)))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Availability(context.Background(), domain.NewWindow(at(14), at(14)))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestReservationService_Book(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	booked, err := f.svc.Book(ctx, f.terrain.ID, f.unit.ID, at(14), 2)
	require.NoError(t, err)
	assert.True(t, at(16).Equal(booked.EndTime))
	assert.Equal(t, 2, booked.Duration)
	assert.Equal(t, domain.ReservationPending, booked.Status)

	_, err = f.svc.Book(ctx, f.terrain.ID, f.other.ID, at(15), 1)
	assert.ErrorIs(t, err, ErrReservationConflict)

	_, err = f.svc.Book(ctx, f.terrain.ID, f.other.ID, at(16), 1)
	assert.NoError(t, err, "back-to-back reservations do not overlap")

	_, err = f.svc.Book(ctx, f.field.ID, f.other.ID, at(14), 2)
	assert.NoError(t, err, "other terrains are independent")

	_, err = f.svc.Book(ctx, f.terrain.ID, f.unit.ID, at(20), 5)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = f.svc.Book(ctx, f.terrain.ID, f.unit.ID, at(20), 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = f.svc.Book(ctx, 999, f.unit.ID, at(20), 1)
	assert.ErrorIs(t, err, ErrTerrainNotFound)
	_, err = f.svc.Book(ctx, f.terrain.ID, 999, at(20), 1)
	assert.ErrorIs(t, err, repository.ErrUnitNotFound)
}

func TestReservationService_ApproveAndCancel(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	own, err := f.svc.Book(ctx, f.terrain.ID, f.unit.ID, at(9), 1)
	require.NoError(t, err)
	approved, err := f.svc.Book(ctx, f.terrain.ID, f.unit.ID, at(10), 1)
	require.NoError(t, err)
	foreign, err := f.svc.Book(ctx, f.terrain.ID, f.other.ID, at(11), 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.Approve(ctx, approved.ID))
	assert.ErrorIs(t, f.svc.Approve(ctx, 999), ErrReservationNotFound)

	unitID := f.unit.ID
	scout := domain.User{Username: "aquile", Role: domain.RoleUnit, UnitID: &unitID}
	tech := domain.User{Username: "tech", Role: domain.RoleTech}

	assert.ErrorIs(t, f.svc.Cancel(ctx, scout, foreign.ID), ErrNotReservationOwner)
	assert.ErrorIs(t, f.svc.Cancel(ctx, scout, approved.ID), ErrNotReservationOwner)
	assert.NoError(t, f.svc.Cancel(ctx, scout, own.ID))
	assert.NoError(t, f.svc.Cancel(ctx, tech, approved.ID))
	assert.NoError(t, f.svc.Cancel(ctx, tech, foreign.ID))

	left, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}
