package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/pkg/password"
	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/testutil"
)

func TestUserService(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	unit := testutil.CreateUnit(t, conn, "Reparto Aquile", "Nord")
	users := repository.NewUserRepository(dao.NewUserDAO(conn))
	svc := NewUserService(users, repository.NewUnitRepository(dao.NewUnitDAO(conn)))

	scout, err := svc.Create(ctx, "aquile", "aquile2026", domain.RoleUnit, &unit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reparto Aquile", scout.UnitName())
	assert.NoError(t, password.Verify("aquile2026", scout.Password))

	tech, err := svc.Create(ctx, "tech", "tecnico99", domain.RoleTech, &unit.ID)
	require.NoError(t, err)
	assert.Nil(t, tech.UnitID, "staff accounts never belong to a unit")

	_, err = svc.Create(ctx, "aquile", "aquile2026", domain.RoleUnit, &unit.ID)
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = svc.Create(ctx, "nobody", "aquile2026", domain.RoleUnit, nil)
	assert.ErrorIs(t, err, ErrUnitRequired)

	missing := uint(999)
	_, err = svc.Create(ctx, "nobody", "aquile2026", domain.RoleUnit, &missing)
	assert.ErrorIs(t, err, ErrUnitNotFound)

	_, err = svc.Create(ctx, "boss", "aquile2026", domain.Role("root"), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.ResetPassword(ctx, scout.ID, "nuova2027"))
	reloaded, err := svc.GetUser(ctx, scout.ID)
	require.NoError(t, err)
	assert.NoError(t, password.Verify("nuova2027", reloaded.Password))

	assert.ErrorIs(t, svc.Delete(ctx, tech, tech.ID), ErrDeleteSelf)
	require.NoError(t, svc.Delete(ctx, tech, scout.ID))
	assert.ErrorIs(t, svc.Delete(ctx, tech, scout.ID), ErrUserNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
