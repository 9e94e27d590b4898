// Package testutil builds throwaway SQLite stores and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scoutcamp/campo/internal/db"
	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/pkg/password"
	"github.com/scoutcamp/campo/internal/repository/dao"
)

// NewDB opens a migrated in-memory database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return conn
}

func CreateUnit(t *testing.T, conn *gorm.DB, name, subCamp string) dao.Unit {
	t.Helper()

	unit, err := dao.NewUnitDAO(conn).Insert(context.Background(), dao.Unit{Name: name, SubCamp: subCamp})
	require.NoError(t, err)

	return unit
}

func CreatePatrol(t *testing.T, conn *gorm.DB, name string, unitID uint) dao.Patrol {
	t.Helper()

	patrol, err := dao.NewPatrolDAO(conn).Insert(context.Background(), dao.Patrol{
		Name:   name,
		Leader: "Capo " + name,
		UnitID: unitID,
	})
	require.NoError(t, err)

	return patrol
}

func CreateChallenge(t *testing.T, conn *gorm.DB, name string, points int) dao.Challenge {
	t.Helper()

	challenge, err := dao.NewChallengeDAO(conn).Insert(context.Background(), dao.Challenge{
		Name:   name,
		Points: points,
	})
	require.NoError(t, err)

	return challenge
}

// CreateUser stores a user whose password is plain, hashed with cheap
// argon2id parameters.
func CreateUser(t *testing.T, conn *gorm.DB, username, plain string, role domain.Role, unitID *uint) dao.User {
	t.Helper()

	hash, err := password.HashWithParams(plain, CheapParams)
	require.NoError(t, err)

	user, err := dao.NewUserDAO(conn).Insert(context.Background(), dao.User{
		Username: username,
		Password: hash,
		Role:     role.String(),
		UnitID:   unitID,
	})
	require.NoError(t, err)

	return user
}

func CreateTerrain(t *testing.T, conn *gorm.DB, name string) dao.Terrain {
	t.Helper()

	terrain, err := dao.NewTerrainDAO(conn).Insert(context.Background(), dao.Terrain{
		Name:      name,
		Tags:      "bosco",
		CenterLat: 45.5,
		CenterLon: 11.5,
		Polygon:   [][2]float64{{45.4, 11.4}, {45.6, 11.4}, {45.6, 11.6}, {45.4, 11.6}},
	})
	require.NoError(t, err)

	return terrain
}

var CheapParams = password.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
