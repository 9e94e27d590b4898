package repository

import (
	"errors"

	"github.com/scoutcamp/campo/internal/repository/dao"
)

var (
	ErrNotFound  = dao.ErrNotFound
	ErrDuplicate = dao.ErrDuplicate

	ErrUnitNotFound        = dao.ErrUnitNotFound
	ErrPatrolNotFound      = dao.ErrPatrolNotFound
	ErrChallengeNotFound   = dao.ErrChallengeNotFound
	ErrCompletionNotFound  = dao.ErrCompletionNotFound
	ErrUserNotFound        = dao.ErrUserNotFound
	ErrTerrainNotFound     = dao.ErrTerrainNotFound
	ErrReservationNotFound = dao.ErrReservationNotFound

	ErrUnitNameExists      = dao.ErrUnitNameExists
	ErrPatrolNameExists    = dao.ErrPatrolNameExists
	ErrChallengeNameExists = dao.ErrChallengeNameExists
	ErrUsernameExists      = dao.ErrUsernameExists
	ErrTerrainNameExists   = dao.ErrTerrainNameExists
	ErrAlreadyCompleted    = dao.ErrAlreadyCompleted

	ErrUnitInUse           = errors.New("unit still has patrols, users or reservations")
	ErrReservationConflict = errors.New("terrain already booked in that time slot")
)
