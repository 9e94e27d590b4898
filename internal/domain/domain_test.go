package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleUnit, RoleUnit, true},
		{RoleUnit, RoleTech, false},
		{RoleUnit, RoleAdmin, false},
		{RoleTech, RoleUnit, true},
		{RoleTech, RoleTech, true},
		{RoleTech, RoleAdmin, false},
		{RoleAdmin, RoleUnit, true},
		{RoleAdmin, RoleAdmin, true},
		{Role("guest"), RoleUnit, false},
		{Role(""), RoleUnit, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+">="+string(tt.min), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.min))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("tech")
	require.NoError(t, err)
	assert.Equal(t, RoleTech, r)

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	base := time.Date(2026, 7, 25, 0, 0, 0, 0, time.UTC)
	w := NewWindow(base.Add(14*time.Hour), base.Add(16*time.Hour))

	assert.True(t, w.Valid())
	assert.Equal(t, 2*time.Hour, w.Duration())

	// touching intervals do not overlap
	assert.False(t, w.Overlaps(base.Add(12*time.Hour), base.Add(14*time.Hour)))
	assert.False(t, w.Overlaps(base.Add(16*time.Hour), base.Add(18*time.Hour)))
	assert.True(t, w.Overlaps(base.Add(15*time.Hour), base.Add(18*time.Hour)))

	assert.Equal(t, time.Hour, w.Overlap(base.Add(15*time.Hour), base.Add(18*time.Hour)))
	assert.Equal(t, 2*time.Hour, w.Overlap(base, base.Add(24*time.Hour)))
	assert.Equal(t, time.Duration(0), w.Overlap(base, base.Add(time.Hour)))

	assert.False(t, NewWindow(base, base).Valid())
}

func TestNewWindow_NormalizesToUTC(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	start := time.Date(2026, 7, 25, 16, 0, 0, 0, rome)
	w := NewWindow(start, start.Add(time.Hour))

	assert.Equal(t, time.UTC, w.Start.Location())
	assert.Equal(t, 14, w.Start.Hour())
}

func TestCentroid(t *testing.T) {
	c := Centroid([]Coordinate{{0, 0}, {2, 0}, {2, 4}, {0, 4}})
	assert.InDelta(t, 1.0, c.Lat(), 1e-9)
	assert.InDelta(t, 2.0, c.Lon(), 1e-9)

	assert.Equal(t, Coordinate{}, Centroid(nil))
}

func TestRank(t *testing.T) {
	ranked := Rank([]Patrol{{Name: "a", Score: 30}, {Name: "b", Score: 20}, {Name: "c", Score: 10}})
	require.Len(t, ranked, 3)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestTerrain_TagList(t *testing.T) {
	assert.Equal(t, []string{"SPORT", "BOSCO"}, Terrain{Tags: " SPORT, ,BOSCO"}.TagList())
	assert.Empty(t, Terrain{}.TagList())
}
