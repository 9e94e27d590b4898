package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/pkg/password"
	"github.com/scoutcamp/campo/internal/repository"
)

var (
	ErrUsernameExists = repository.ErrUsernameExists
	ErrUnitRequired   = fmt.Errorf("%w: unit accounts must belong to a unit", ErrInvalidInput)
	ErrInvalidRole    = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrDeleteSelf     = errors.New("cannot delete the account in use")
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
}

type UnitFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Unit, error)
}

type UserService struct {
	repo  UserRepository
	units UnitFinder
}

func NewUserService(repo UserRepository, units UnitFinder) *UserService {
	return &UserService{
		repo:  repo,
		units: units,
	}
}

// Create stores a new account. Unit accounts must reference an existing
// unit; staff accounts never carry one.
func (s *UserService) Create(ctx context.Context, username, plain string, role domain.Role, unitID *uint) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	if role == domain.RoleUnit {
		if unitID == nil {
			return domain.User{}, ErrUnitRequired
		}
		if _, err := s.units.FindByID(ctx, *unitID); err != nil {
			return domain.User{}, fmt.Errorf("s.units.FindByID -> %w", err)
		}
	} else {
		unitID = nil
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return domain.User{}, fmt.Errorf("password.Hash -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.User{
		Username: username,
		Password: hash,
		Role:     role,
		UnitID:   unitID,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return users, nil
}

func (s *UserService) ResetPassword(ctx context.Context, id uint, plain string) error {
	hash, err := password.Hash(plain)
	if err != nil {
		return fmt.Errorf("password.Hash -> %w", err)
	}

	if err = s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("s.repo.UpdatePassword -> %w", err)
	}

	return nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.User, id uint) error {
	if actor.ID == id {
		return ErrDeleteSelf
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
