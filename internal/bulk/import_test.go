package bulk

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/service"
	"github.com/scoutcamp/campo/internal/testutil"
)

type fixture struct {
	db           *gorm.DB
	camp         *service.CampService
	terrains     *service.TerrainService
	reservations *service.ReservationService
	importer     *Importer
}

func newFixture(t *testing.T) fixture {
	conn := testutil.NewDB(t)
	unitRepo := repository.NewUnitRepository(dao.NewUnitDAO(conn))
	terrainRepo := repository.NewTerrainRepository(dao.NewTerrainDAO(conn))

	camp := service.NewCampService(
		unitRepo,
		repository.NewPatrolRepository(dao.NewPatrolDAO(conn)),
		repository.NewChallengeRepository(dao.NewChallengeDAO(conn)),
		repository.NewCompletionRepository(dao.NewCompletionDAO(conn)),
	)
	score := service.NewScoreService(repository.NewScoreRepository(conn))
	terrains := service.NewTerrainService(terrainRepo)
	reservations := service.NewReservationService(repository.NewReservationRepository(conn), terrainRepo, 4, time.UTC)

	return fixture{
		db:           conn,
		camp:         camp,
		terrains:     terrains,
		reservations: reservations,
		importer:     NewImporter(camp, score, terrains, reservations),
	}
}

func (f fixture) load(t *testing.T, kind Kind, body string) Result {
	t.Helper()

	res, err := f.importer.Import(context.Background(), kind, strings.NewReader(body))
	require.NoError(t, err)

	return res
}

const (
	unitsCSV = "\xef\xbb\xbfUnitName,Sottocampo\n" +
		"Reparto Aquile,Nord\n" +
		"\n" +
		"Reparto Falchi,Sud\n" +
		",Sud\n"
	patrolsCSV = "Name,CapoPattuglia,UnitName\n" +
		"Lupi,Marco,Reparto Aquile\n" +
		"Volpi,Giulia,Reparto Aquile\n" +
		"Orsi,Luca,Reparto Falchi\n" +
		"Gufi,Anna,Reparto Fantasma\n"
	challengesCSV = "Name,Description,Points,RewardTokens,IsFungo\n" +
		"Fuoco,Accendere un fuoco,10,1,false\n" +
		"Nodi,,5,,TRUE\n" +
		"Rotto,,tanti,0,false\n"
	completionsCSV = "PattugliaName,ChallengeName,Timestamp\n" +
		"Lupi,Fuoco,2026-07-20T10:00:00\n" +
		"Lupi,Nodi,\n" +
		"Volpi,Nodi,2026-07-20 11:30\n" +
		"Lupi,Fuoco,2026-07-21T10:00:00\n" +
		"Nessuno,Fuoco,\n"
)

func TestImport_Camp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.load(t, KindUnits, unitsCSV)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "line 5")

	res = f.load(t, KindPatrols, patrolsCSV)
	assert.Equal(t, 3, res.Created)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Reparto Fantasma")

	res = f.load(t, KindChallenges, challengesCSV)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "tanti")

	nodi, err := f.camp.FindChallengeByName(ctx, "Nodi")
	require.NoError(t, err)
	assert.True(t, nodi.IsFungo)
	assert.Equal(t, 0, nodi.RewardTokens)

	res = f.load(t, KindCompletions, completionsCSV)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Warnings, 1)

	ranking, err := f.camp.Ranking(ctx, "")
	require.NoError(t, err)
	require.Len(t, ranking, 3)
	assert.Equal(t, "Lupi", ranking[0].Name)
	assert.Equal(t, 15, ranking[0].Score)
	assert.Equal(t, "Volpi", ranking[1].Name)
	assert.Equal(t, 5, ranking[1].Score)
	assert.Equal(t, 0, ranking[2].Score)
}

func TestImport_Idempotent(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		f.load(t, KindUnits, unitsCSV)
		f.load(t, KindPatrols, patrolsCSV)
		f.load(t, KindChallenges, challengesCSV)
		f.load(t, KindCompletions, completionsCSV)
	}

	res := f.load(t, KindUnits, unitsCSV)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Skipped)

	ranking, err := f.camp.Ranking(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 15, ranking[0].Score)
}

func TestImport_MissingColumn(t *testing.T) {
	f := newFixture(t)

	_, err := f.importer.Import(context.Background(), KindPatrols, strings.NewReader("Name,UnitName\nLupi,Aquile\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = f.importer.Import(context.Background(), KindUnits, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestImport_Terrains(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, WriteTerrains(&buf, []domain.Terrain{
		{
			Name:        "Prato Grande",
			Tags:        "prato,acqua",
			CenterLat:   45.5,
			CenterLon:   11.5,
			Polygon:     []domain.Coordinate{{45, 11}, {46, 11}, {46, 12}, {45, 12}},
			Description: "Vicino al fiume, in piano",
			ImageURLs:   []string{"https://example.org/prato.jpg"},
		},
		{Name: "Radura"},
	}, true))
	buf.WriteString(`Bosco,,45.1,11.1,"[[1,2]]",,[]` + "\n")

	res := f.load(t, KindTerrains, buf.String())
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Bosco")

	prato, err := f.terrains.FindByName(ctx, "Prato Grande")
	require.NoError(t, err)
	assert.Equal(t, "Vicino al fiume, in piano", prato.Description)
	assert.Equal(t, []string{"prato", "acqua"}, prato.TagList())
	assert.Len(t, prato.Polygon, 4)
	assert.Equal(t, []string{"https://example.org/prato.jpg"}, prato.ImageURLs)

	res = f.load(t, KindTerrains, buf.String())
	assert.Equal(t, 0, res.Created)
}

func TestImport_Reservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.load(t, KindUnits, unitsCSV)
	testutil.CreateTerrain(t, f.db, "Campo Nord")

	res := f.load(t, KindReservations, "TerrenoName,UnitName,StartTime,Duration,Status\n"+
		"Campo Nord,Reparto Aquile,2026-07-20T10:00:00,2,APPROVED\n"+
		"Campo Nord,Reparto Falchi,2026-07-20T11:00:00,1,PENDING\n"+
		"Campo Nord,Reparto Falchi,2026-07-20T12:00:00,1,\n"+
		"Campo Nord,Reparto Falchi,2026-07-21T12:00:00,9,PENDING\n"+
		"Campo Sud,Reparto Falchi,2026-07-21T12:00:00,1,PENDING\n"+
		"Campo Nord,Reparto Falchi,ieri,1,PENDING\n")
	assert.Equal(t, 2, res.Created)
	assert.Len(t, res.Warnings, 4)

	list, err := f.reservations.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	statuses := map[string]domain.ReservationStatus{}
	for _, r := range list {
		statuses[r.StartTime.UTC().Format("15:04")] = r.Status
	}
	assert.Equal(t, domain.ReservationApproved, statuses["10:00"])
	assert.Equal(t, domain.ReservationPending, statuses["12:00"])
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("tende")
	assert.Error(t, err)
}
