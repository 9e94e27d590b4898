package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/testutil"
)

type scoreFixture struct {
	db      *gorm.DB
	svc     *ScoreService
	patrol  dao.Patrol
	other   dao.Patrol
	roar    dao.Challenge
	hike    dao.Challenge
	patrols *dao.PatrolDAO
}

func newScoreFixture(t *testing.T) scoreFixture {
	conn := testutil.NewDB(t)
	unit := testutil.CreateUnit(t, conn, "Reparto Aquile", "Nord")

	return scoreFixture{
		db:      conn,
		svc:     NewScoreService(repository.NewScoreRepository(conn)),
		patrol:  testutil.CreatePatrol(t, conn, "Lupi", unit.ID),
		other:   testutil.CreatePatrol(t, conn, "Volpi", unit.ID),
		roar:    testutil.CreateChallenge(t, conn, "Roar", 10),
		hike:    testutil.CreateChallenge(t, conn, "Hike", 25),
		patrols: dao.NewPatrolDAO(conn),
	}
}

func (f scoreFixture) score(t *testing.T, id uint) int {
	t.Helper()

	p, err := f.patrols.FindByID(context.Background(), id)
	require.NoError(t, err)

	return p.Score
}

func (f scoreFixture) completions(t *testing.T, patrolID, challengeID uint) int64 {
	t.Helper()

	n, err := dao.NewCompletionDAO(f.db).Count(context.Background(), patrolID, challengeID)
	require.NoError(t, err)

	return n
}

func TestScoreService_Complete(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	at := time.Date(2026, 7, 20, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	completion, err := f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, at)
	require.NoError(t, err)

	assert.Equal(t, f.patrol.ID, completion.PatrolID)
	assert.Equal(t, "Roar", completion.Challenge.Name)
	assert.Equal(t, 10, completion.Patrol.Score)
	assert.True(t, completion.CompletedAt.Equal(at))
	assert.Equal(t, time.UTC, completion.CompletedAt.Location())
	assert.Equal(t, 10, f.score(t, f.patrol.ID))
	assert.Equal(t, 0, f.score(t, f.other.ID))
}

func TestScoreService_Complete_Duplicate(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, time.Time{})
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, time.Time{})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	assert.Equal(t, 10, f.score(t, f.patrol.ID))
	assert.EqualValues(t, 1, f.completions(t, f.patrol.ID, f.roar.ID))
}

func TestScoreService_Complete_NotFound(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, 999, f.roar.ID, time.Time{})
	assert.ErrorIs(t, err, ErrPatrolNotFound)

	_, err = f.svc.Complete(ctx, f.patrol.ID, 999, time.Time{})
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	assert.Equal(t, 0, f.score(t, f.patrol.ID))
}

func TestScoreService_Rollback(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, f.patrol.ID, f.hike.ID, time.Time{})
	require.NoError(t, err)
	completion, err := f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 35, f.score(t, f.patrol.ID))

	rolled, err := f.svc.Rollback(ctx, completion.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lupi", rolled.Patrol.Name)

	assert.Equal(t, 25, f.score(t, f.patrol.ID))
	assert.EqualValues(t, 0, f.completions(t, f.patrol.ID, f.roar.ID))

	_, err = f.svc.Rollback(ctx, completion.ID)
	assert.ErrorIs(t, err, ErrCompletionNotFound)
	assert.Equal(t, 25, f.score(t, f.patrol.ID))
}

func TestScoreService_EditChallenge(t *testing.T) {
	tests := []struct {
		name        string
		points      int
		retroactive bool
		wantScore   int
	}{
		{"retroactive raise", 40, true, 40},
		{"retroactive lower", 4, true, 4},
		{"not retroactive", 40, false, 10},
		{"same points", 10, true, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScoreFixture(t)
			ctx := context.Background()

			_, err := f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, time.Time{})
			require.NoError(t, err)

			updated, err := f.svc.EditChallenge(ctx, f.roar.ID, ChallengeEdit{
				Name:        "Roar",
				Description: "urlo collettivo",
				Points:      tt.points,
				Retroactive: tt.retroactive,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.points, updated.Points)
			assert.Equal(t, "urlo collettivo", updated.Description)

			assert.Equal(t, tt.wantScore, f.score(t, f.patrol.ID))
			assert.Equal(t, 0, f.score(t, f.other.ID))
		})
	}
}

func TestScoreService_RoarScenario(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 10, f.score(t, f.patrol.ID))

	_, err = f.svc.EditChallenge(ctx, f.roar.ID, ChallengeEdit{Name: "Roar", Points: 20})
	require.NoError(t, err)
	assert.Equal(t, 10, f.score(t, f.patrol.ID))

	_, err = f.svc.EditChallenge(ctx, f.roar.ID, ChallengeEdit{Name: "Roar", Points: 50, Retroactive: true})
	require.NoError(t, err)
	assert.Equal(t, 40, f.score(t, f.patrol.ID))

	_, err = f.svc.Complete(ctx, f.other.ID, f.roar.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 50, f.score(t, f.other.ID))
}

func TestScoreService_EditChallenge_FailureLeavesScores(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, time.Time{})
	require.NoError(t, err)

	_, err = f.svc.EditChallenge(ctx, f.roar.ID, ChallengeEdit{Name: "Hike", Points: 99, Retroactive: true})
	assert.ErrorIs(t, err, repository.ErrChallengeNameExists)

	assert.Equal(t, 10, f.score(t, f.patrol.ID))
	roar, err := dao.NewChallengeDAO(f.db).FindByID(ctx, f.roar.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, roar.Points)
}

func TestScoreService_DeleteChallenge(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	for _, id := range []uint{f.patrol.ID, f.other.ID} {
		_, err := f.svc.Complete(ctx, id, f.roar.ID, time.Time{})
		require.NoError(t, err)
	}
	_, err := f.svc.Complete(ctx, f.patrol.ID, f.hike.ID, time.Time{})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteChallenge(ctx, f.roar.ID))

	assert.Equal(t, 25, f.score(t, f.patrol.ID))
	assert.Equal(t, 0, f.score(t, f.other.ID))
	assert.EqualValues(t, 0, f.completions(t, f.patrol.ID, f.roar.ID))

	_, err = dao.NewChallengeDAO(f.db).FindByID(ctx, f.roar.ID)
	assert.ErrorIs(t, err, dao.ErrChallengeNotFound)

	assert.ErrorIs(t, f.svc.DeleteChallenge(ctx, f.roar.ID), ErrChallengeNotFound)
}

func TestScoreService_DeletePatrol(t *testing.T) {
	f := newScoreFixture(t)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, f.patrol.ID, f.roar.ID, time.Time{})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePatrol(ctx, f.patrol.ID))

	_, err = f.patrols.FindByID(ctx, f.patrol.ID)
	assert.ErrorIs(t, err, ErrPatrolNotFound)
	assert.EqualValues(t, 0, f.completions(t, f.patrol.ID, f.roar.ID))

	assert.ErrorIs(t, f.svc.DeletePatrol(ctx, f.patrol.ID), ErrPatrolNotFound)
}
