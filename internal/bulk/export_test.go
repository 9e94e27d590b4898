package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/service"
)

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()

	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)

	return rows
}

func TestWriteRanking(t *testing.T) {
	f := newFixture(t)
	f.load(t, KindUnits, unitsCSV)
	f.load(t, KindPatrols, patrolsCSV)
	f.load(t, KindChallenges, challengesCSV)
	f.load(t, KindCompletions, completionsCSV)

	ranking, err := f.camp.Ranking(context.Background(), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRanking(&buf, ranking))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 4)
	assert.Equal(t, rankingHeader, rows[0])
	assert.Equal(t, []string{"1", "Lupi", "Marco", "Reparto Aquile", "Nord", "15"}, rows[1])

	prev := int(^uint(0) >> 1)
	for i, row := range rows[1:] {
		assert.Equal(t, strconv.Itoa(i+1), row[0])

		score, err := strconv.Atoi(row[5])
		require.NoError(t, err)
		assert.Less(t, score, prev)
		prev = score
	}
}

func TestWriteTerrains_Append(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTerrains(&buf, []domain.Terrain{{Name: "A", CenterLat: 45.1234567}}, true))
	require.NoError(t, WriteTerrains(&buf, []domain.Terrain{{Name: "B"}}, false))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, columns[KindTerrains], rows[0])
	assert.Equal(t, []string{"A", "", "45.123457", "0.000000", "[]", "", "[]"}, rows[1])
	assert.Equal(t, "B", rows[2][0])
}

func TestGenerateReservations(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	from := time.Date(2026, 7, 25, 0, 0, 0, 0, rome)
	to := time.Date(2026, 7, 27, 0, 0, 0, 0, rome)

	rows := GenerateReservations(rand.New(rand.NewSource(1)), []string{"Nord", "Sud"}, []string{"Aquile"}, 50, from, to, 3)
	require.Len(t, rows, 50)

	for _, r := range rows {
		assert.Contains(t, []string{"Nord", "Sud"}, r.Terrain)
		assert.Equal(t, "Aquile", r.Unit)
		assert.False(t, r.Start.Before(from))
		assert.True(t, r.Start.Before(to.AddDate(0, 0, 1)))
		assert.GreaterOrEqual(t, r.Start.Hour(), 8)
		assert.LessOrEqual(t, r.Start.Hour(), 20)
		assert.Zero(t, r.Start.Minute())
		assert.GreaterOrEqual(t, r.Duration, 1)
		assert.LessOrEqual(t, r.Duration, 3)
		assert.Equal(t, domain.ReservationApproved, r.Status)
	}

	again := GenerateReservations(rand.New(rand.NewSource(1)), []string{"Nord", "Sud"}, []string{"Aquile"}, 50, from, to, 3)
	assert.Equal(t, rows, again)

	assert.Nil(t, GenerateReservations(rand.New(rand.NewSource(1)), nil, []string{"Aquile"}, 5, from, to, 3))
	assert.Nil(t, GenerateReservations(rand.New(rand.NewSource(1)), []string{"Nord"}, []string{"Aquile"}, 5, to, from, 3))
}

func TestGeneratedReservationsImport(t *testing.T) {
	f := newFixture(t)
	f.load(t, KindUnits, unitsCSV)
	f.load(t, KindTerrains, "Name,Tags,CenterLat,CenterLon,Polygon,Description,ImageUrls\nCampo Nord,,45,11,,,\n")

	from := time.Date(2026, 7, 25, 0, 0, 0, 0, time.UTC)
	rows := GenerateReservations(rand.New(rand.NewSource(7)), []string{"Campo Nord"}, []string{"Reparto Aquile", "Reparto Falchi"}, 20, from, from, 4)

	var buf bytes.Buffer
	require.NoError(t, WriteReservations(&buf, rows))

	res := f.load(t, KindReservations, buf.String())
	assert.Equal(t, 20, res.Created+res.Skipped)
	for _, w := range res.Warnings {
		assert.Contains(t, w, "already booked")
	}

	list, err := f.reservations.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, res.Created)
	for _, r := range list {
		assert.Equal(t, domain.ReservationApproved, r.Status)
	}
}

func TestSeedUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.load(t, KindUnits, unitsCSV+"!!!,Nord\n")

	users := service.NewUserService(
		repository.NewUserRepository(dao.NewUserDAO(f.db)),
		repository.NewUnitRepository(dao.NewUnitDAO(f.db)),
	)

	creds, err := SeedUsers(ctx, f.camp, users)
	require.NoError(t, err)
	require.Len(t, creds, 5)

	byUser := map[string]Credential{}
	for _, c := range creds {
		byUser[c.Username] = c
		assert.Len(t, c.Password, passwordLength)
	}
	assert.Equal(t, domain.RoleAdmin, byUser["admin"].Role)
	assert.Equal(t, domain.RoleTech, byUser["prog"].Role)
	assert.Equal(t, "Reparto Aquile", byUser["repartoaquile"].Unit)
	assert.Equal(t, domain.RoleUnit, byUser["repartofalchi"].Role)

	var unnamed bool
	for name := range byUser {
		unnamed = unnamed || strings.HasPrefix(name, "unit")
	}
	assert.True(t, unnamed)

	again, err := SeedUsers(ctx, f.camp, users)
	require.NoError(t, err)
	assert.Empty(t, again)

	var buf bytes.Buffer
	require.NoError(t, WriteCredentials(&buf, creds))
	rows := readCSV(t, buf.Bytes())
	assert.Len(t, rows, 6)
	assert.Equal(t, []string{"Ruolo", "Unità", "Username", "Password"}, rows[0])
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := GeneratePassword()
		require.NoError(t, err)

		assert.Len(t, p, passwordLength)
		assert.True(t, strings.ContainsAny(p, "0123456789"))
		assert.False(t, seen[p])
		seen[p] = true
	}
}

func TestUnitUsername(t *testing.T) {
	assert.Equal(t, "repartoaquile1", UnitUsername(domain.Unit{ID: 3, Name: "Reparto Aquile #1"}))
	assert.Equal(t, "citt", UnitUsername(domain.Unit{ID: 3, Name: "Città"}))
	assert.Equal(t, "unit3", UnitUsername(domain.Unit{ID: 3, Name: "È ù"}))
}
