package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
)

var (
	ErrUnitNotFound        = repository.ErrUnitNotFound
	ErrUnitInUse           = repository.ErrUnitInUse
	ErrUnitNameExists      = repository.ErrUnitNameExists
	ErrPatrolNameExists    = repository.ErrPatrolNameExists
	ErrChallengeNameExists = repository.ErrChallengeNameExists
)

type UnitRepository interface {
	Create(ctx context.Context, unit domain.Unit) (domain.Unit, error)
	Update(ctx context.Context, unit domain.Unit) (domain.Unit, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Unit, error)
	FindByName(ctx context.Context, name string) (domain.Unit, error)
	List(ctx context.Context) ([]domain.Unit, error)
	ListSubCamps(ctx context.Context) ([]string, error)
}

type PatrolRepository interface {
	Create(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error)
	Update(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error)
	FindByID(ctx context.Context, id uint) (domain.Patrol, error)
	FindByName(ctx context.Context, name string) (domain.Patrol, error)
	List(ctx context.Context) ([]domain.Patrol, error)
	ListRanking(ctx context.Context, subCamp string) ([]domain.Patrol, error)
}

type ChallengeRepository interface {
	Create(ctx context.Context, challenge domain.Challenge) (domain.Challenge, error)
	FindByID(ctx context.Context, id uint) (domain.Challenge, error)
	FindByName(ctx context.Context, name string) (domain.Challenge, error)
	List(ctx context.Context) ([]domain.Challenge, error)
}

type CompletionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Completion, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Completion, error)
	CountByChallenge(ctx context.Context, challengeID uint) (int, error)
}

// CampService covers units, patrols and challenges plus the read models
// built on them. Score changes go through ScoreService.
type CampService struct {
	units       UnitRepository
	patrols     PatrolRepository
	challenges  ChallengeRepository
	completions CompletionRepository
}

func NewCampService(units UnitRepository, patrols PatrolRepository, challenges ChallengeRepository, completions CompletionRepository) *CampService {
	return &CampService{
		units:       units,
		patrols:     patrols,
		challenges:  challenges,
		completions: completions,
	}
}

func (s *CampService) CreateUnit(ctx context.Context, unit domain.Unit) (domain.Unit, error) {
	unit.Name = strings.TrimSpace(unit.Name)
	unit.SubCamp = strings.TrimSpace(unit.SubCamp)

	created, err := s.units.Create(ctx, unit)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("s.units.Create -> %w", err)
	}

	return created, nil
}

func (s *CampService) UpdateUnit(ctx context.Context, unit domain.Unit) (domain.Unit, error) {
	unit.Name = strings.TrimSpace(unit.Name)
	unit.SubCamp = strings.TrimSpace(unit.SubCamp)

	updated, err := s.units.Update(ctx, unit)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("s.units.Update -> %w", err)
	}

	return updated, nil
}

func (s *CampService) DeleteUnit(ctx context.Context, id uint) error {
	if err := s.units.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.units.Delete -> %w", err)
	}

	return nil
}

func (s *CampService) GetUnit(ctx context.Context, id uint) (domain.Unit, error) {
	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("s.units.FindByID -> %w", err)
	}

	return unit, nil
}

func (s *CampService) FindUnitByName(ctx context.Context, name string) (domain.Unit, error) {
	unit, err := s.units.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Unit{}, fmt.Errorf("s.units.FindByName -> %w", err)
	}

	return unit, nil
}

func (s *CampService) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	units, err := s.units.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.units.List -> %w", err)
	}

	return units, nil
}

func (s *CampService) ListSubCamps(ctx context.Context) ([]string, error) {
	subCamps, err := s.units.ListSubCamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.units.ListSubCamps -> %w", err)
	}

	return subCamps, nil
}

func (s *CampService) CreatePatrol(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error) {
	if _, err := s.units.FindByID(ctx, patrol.UnitID); err != nil {
		return domain.Patrol{}, fmt.Errorf("s.units.FindByID -> %w", err)
	}

	patrol.Name = strings.TrimSpace(patrol.Name)
	patrol.Leader = strings.TrimSpace(patrol.Leader)

	created, err := s.patrols.Create(ctx, patrol)
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("s.patrols.Create -> %w", err)
	}

	return created, nil
}

func (s *CampService) UpdatePatrol(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error) {
	if _, err := s.units.FindByID(ctx, patrol.UnitID); err != nil {
		return domain.Patrol{}, fmt.Errorf("s.units.FindByID -> %w", err)
	}

	patrol.Name = strings.TrimSpace(patrol.Name)
	patrol.Leader = strings.TrimSpace(patrol.Leader)

	updated, err := s.patrols.Update(ctx, patrol)
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("s.patrols.Update -> %w", err)
	}

	return updated, nil
}

func (s *CampService) GetPatrol(ctx context.Context, id uint) (domain.Patrol, error) {
	patrol, err := s.patrols.FindByID(ctx, id)
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("s.patrols.FindByID -> %w", err)
	}

	return patrol, nil
}

func (s *CampService) FindPatrolByName(ctx context.Context, name string) (domain.Patrol, error) {
	patrol, err := s.patrols.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("s.patrols.FindByName -> %w", err)
	}

	return patrol, nil
}

func (s *CampService) ListPatrols(ctx context.Context) ([]domain.Patrol, error) {
	patrols, err := s.patrols.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.patrols.List -> %w", err)
	}

	return patrols, nil
}

func (s *CampService) CreateChallenge(ctx context.Context, challenge domain.Challenge) (domain.Challenge, error) {
	challenge.Name = strings.TrimSpace(challenge.Name)

	created, err := s.challenges.Create(ctx, challenge)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("s.challenges.Create -> %w", err)
	}

	return created, nil
}

func (s *CampService) GetChallenge(ctx context.Context, id uint) (domain.Challenge, error) {
	challenge, err := s.challenges.FindByID(ctx, id)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("s.challenges.FindByID -> %w", err)
	}

	return challenge, nil
}

func (s *CampService) FindChallengeByName(ctx context.Context, name string) (domain.Challenge, error) {
	challenge, err := s.challenges.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("s.challenges.FindByName -> %w", err)
	}

	return challenge, nil
}

func (s *CampService) ListChallenges(ctx context.Context) ([]domain.Challenge, error) {
	challenges, err := s.challenges.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.challenges.List -> %w", err)
	}

	return challenges, nil
}

// CompletionCount is the number of completions a points edit would touch.
func (s *CampService) CompletionCount(ctx context.Context, challengeID uint) (int, error) {
	n, err := s.completions.CountByChallenge(ctx, challengeID)
	if err != nil {
		return 0, fmt.Errorf("s.completions.CountByChallenge -> %w", err)
	}

	return n, nil
}

func (s *CampService) GetCompletion(ctx context.Context, id uint) (domain.Completion, error) {
	completion, err := s.completions.FindByID(ctx, id)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("s.completions.FindByID -> %w", err)
	}

	return completion, nil
}

// Ranking orders patrols by descending score; subCamp narrows it to one
// sub-camp when not empty.
func (s *CampService) Ranking(ctx context.Context, subCamp string) ([]domain.RankedPatrol, error) {
	patrols, err := s.patrols.ListRanking(ctx, strings.TrimSpace(subCamp))
	if err != nil {
		return nil, fmt.Errorf("s.patrols.ListRanking -> %w", err)
	}

	return domain.Rank(patrols), nil
}

// Timeline returns the latest completions, newest first.
func (s *CampService) Timeline(ctx context.Context, limit int) ([]domain.Completion, error) {
	completions, err := s.completions.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.completions.ListLatest -> %w", err)
	}

	return completions, nil
}

type Dashboard struct {
	Units       []domain.Unit
	Patrols     []domain.Patrol
	Challenges  []domain.Challenge
	Completions []domain.Completion
}

// Dashboard loads everything the admin overview shows.
func (s *CampService) Dashboard(ctx context.Context, recent int) (Dashboard, error) {
	var d Dashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Units, err = s.ListUnits(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Patrols, err = s.ListPatrols(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Challenges, err = s.ListChallenges(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Completions, err = s.Timeline(ctx, recent)
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return d, nil
}
