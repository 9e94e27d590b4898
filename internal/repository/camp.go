package repository

import (
	"context"
	"fmt"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository/dao"
)

type UnitDAO interface {
	Insert(ctx context.Context, unit dao.Unit) (dao.Unit, error)
	Update(ctx context.Context, unit dao.Unit) (dao.Unit, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Unit, error)
	FindByName(ctx context.Context, name string) (dao.Unit, error)
	List(ctx context.Context) ([]dao.Unit, error)
	ListSubCamps(ctx context.Context) ([]string, error)
	CountDependents(ctx context.Context, id uint) (dao.UnitDependents, error)
}

type UnitRepository struct {
	dao UnitDAO
}

func NewUnitRepository(dao UnitDAO) *UnitRepository {
	return &UnitRepository{
		dao: dao,
	}
}

func (r *UnitRepository) Create(ctx context.Context, unit domain.Unit) (domain.Unit, error) {
	created, err := r.dao.Insert(ctx, dao.Unit{Name: unit.Name, SubCamp: unit.SubCamp})
	if err != nil {
		return domain.Unit{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return unitToDomain(created), nil
}

func (r *UnitRepository) Update(ctx context.Context, unit domain.Unit) (domain.Unit, error) {
	updated, err := r.dao.Update(ctx, dao.Unit{ID: unit.ID, Name: unit.Name, SubCamp: unit.SubCamp})
	if err != nil {
		return domain.Unit{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return unitToDomain(updated), nil
}

// Delete refuses to remove a unit that still owns patrols, users or reservations.
func (r *UnitRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.dao.FindByID(ctx, id); err != nil {
		return fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	deps, err := r.dao.CountDependents(ctx, id)
	if err != nil {
		return fmt.Errorf("r.dao.CountDependents -> %w", err)
	}
	if deps.Any() {
		return ErrUnitInUse
	}

	if err = r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UnitRepository) FindByID(ctx context.Context, id uint) (domain.Unit, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return unitToDomain(found), nil
}

func (r *UnitRepository) FindByName(ctx context.Context, name string) (domain.Unit, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return unitToDomain(found), nil
}

func (r *UnitRepository) List(ctx context.Context) ([]domain.Unit, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	units := make([]domain.Unit, len(found))
	for i, u := range found {
		units[i] = unitToDomain(u)
	}

	return units, nil
}

func (r *UnitRepository) ListSubCamps(ctx context.Context) ([]string, error) {
	subCamps, err := r.dao.ListSubCamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListSubCamps -> %w", err)
	}

	return subCamps, nil
}

type PatrolDAO interface {
	Insert(ctx context.Context, patrol dao.Patrol) (dao.Patrol, error)
	Update(ctx context.Context, patrol dao.Patrol) (dao.Patrol, error)
	FindByID(ctx context.Context, id uint) (dao.Patrol, error)
	FindByName(ctx context.Context, name string) (dao.Patrol, error)
	List(ctx context.Context) ([]dao.Patrol, error)
	ListRanking(ctx context.Context, subCamp string) ([]dao.Patrol, error)
}

// PatrolRepository manages the descriptive side of patrols. Score changes go
// through ScoreRepository only.
type PatrolRepository struct {
	dao PatrolDAO
}

func NewPatrolRepository(dao PatrolDAO) *PatrolRepository {
	return &PatrolRepository{
		dao: dao,
	}
}

func (r *PatrolRepository) Create(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error) {
	created, err := r.dao.Insert(ctx, dao.Patrol{Name: patrol.Name, Leader: patrol.Leader, UnitID: patrol.UnitID})
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return patrolToDomain(created), nil
}

func (r *PatrolRepository) Update(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error) {
	updated, err := r.dao.Update(ctx, dao.Patrol{ID: patrol.ID, Name: patrol.Name, Leader: patrol.Leader, UnitID: patrol.UnitID})
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return patrolToDomain(updated), nil
}

func (r *PatrolRepository) FindByID(ctx context.Context, id uint) (domain.Patrol, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return patrolToDomain(found), nil
}

func (r *PatrolRepository) FindByName(ctx context.Context, name string) (domain.Patrol, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return patrolToDomain(found), nil
}

func (r *PatrolRepository) List(ctx context.Context) ([]domain.Patrol, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return patrolsToDomain(found), nil
}

func (r *PatrolRepository) ListRanking(ctx context.Context, subCamp string) ([]domain.Patrol, error) {
	found, err := r.dao.ListRanking(ctx, subCamp)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListRanking -> %w", err)
	}

	return patrolsToDomain(found), nil
}

type ChallengeDAO interface {
	Insert(ctx context.Context, challenge dao.Challenge) (dao.Challenge, error)
	FindByID(ctx context.Context, id uint) (dao.Challenge, error)
	FindByName(ctx context.Context, name string) (dao.Challenge, error)
	List(ctx context.Context) ([]dao.Challenge, error)
}

type ChallengeRepository struct {
	dao ChallengeDAO
}

func NewChallengeRepository(dao ChallengeDAO) *ChallengeRepository {
	return &ChallengeRepository{
		dao: dao,
	}
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge domain.Challenge) (domain.Challenge, error) {
	created, err := r.dao.Insert(ctx, challengeToDAO(challenge))
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return challengeToDomain(created), nil
}

func (r *ChallengeRepository) FindByID(ctx context.Context, id uint) (domain.Challenge, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return challengeToDomain(found), nil
}

func (r *ChallengeRepository) FindByName(ctx context.Context, name string) (domain.Challenge, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return challengeToDomain(found), nil
}

func (r *ChallengeRepository) List(ctx context.Context) ([]domain.Challenge, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	challenges := make([]domain.Challenge, len(found))
	for i, c := range found {
		challenges[i] = challengeToDomain(c)
	}

	return challenges, nil
}

type CompletionDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Completion, error)
	ListLatest(ctx context.Context, limit int) ([]dao.Completion, error)
	CountByChallenge(ctx context.Context, challengeID uint) (int64, error)
}

type CompletionRepository struct {
	dao CompletionDAO
}

func NewCompletionRepository(dao CompletionDAO) *CompletionRepository {
	return &CompletionRepository{
		dao: dao,
	}
}

func (r *CompletionRepository) FindByID(ctx context.Context, id uint) (domain.Completion, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return completionToDomain(found), nil
}

func (r *CompletionRepository) ListLatest(ctx context.Context, limit int) ([]domain.Completion, error) {
	found, err := r.dao.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListLatest -> %w", err)
	}

	completions := make([]domain.Completion, len(found))
	for i, c := range found {
		completions[i] = completionToDomain(c)
	}

	return completions, nil
}

func (r *CompletionRepository) CountByChallenge(ctx context.Context, challengeID uint) (int, error) {
	n, err := r.dao.CountByChallenge(ctx, challengeID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByChallenge -> %w", err)
	}

	return int(n), nil
}

func unitToDomain(u dao.Unit) domain.Unit {
	return domain.Unit{
		ID:        u.ID,
		Name:      u.Name,
		SubCamp:   u.SubCamp,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func patrolToDomain(p dao.Patrol) domain.Patrol {
	return domain.Patrol{
		ID:        p.ID,
		Name:      p.Name,
		Leader:    p.Leader,
		UnitID:    p.UnitID,
		Unit:      unitToDomain(p.Unit),
		Score:     p.Score,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func patrolsToDomain(found []dao.Patrol) []domain.Patrol {
	patrols := make([]domain.Patrol, len(found))
	for i, p := range found {
		patrols[i] = patrolToDomain(p)
	}

	return patrols
}

func challengeToDomain(c dao.Challenge) domain.Challenge {
	return domain.Challenge{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Points:       c.Points,
		IsFungo:      c.IsFungo,
		RewardTokens: c.RewardTokens,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func challengeToDAO(c domain.Challenge) dao.Challenge {
	return dao.Challenge{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Points:       c.Points,
		IsFungo:      c.IsFungo,
		RewardTokens: c.RewardTokens,
	}
}

func completionToDomain(c dao.Completion) domain.Completion {
	return domain.Completion{
		ID:          c.ID,
		PatrolID:    c.PatrolID,
		ChallengeID: c.ChallengeID,
		Patrol:      patrolToDomain(c.Patrol),
		Challenge:   challengeToDomain(c.Challenge),
		CompletedAt: c.CompletedAt.UTC(),
	}
}
