package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository/dao"
)

// ScoreTx is the set of reads and writes the score engine performs inside a
// single transaction. It is the only place a patrol score can change.
type ScoreTx interface {
	FindPatrol(ctx context.Context, id uint) (domain.Patrol, error)
	FindChallenge(ctx context.Context, id uint) (domain.Challenge, error)
	FindCompletion(ctx context.Context, id uint) (domain.Completion, error)
	CompletionExists(ctx context.Context, patrolID, challengeID uint) (bool, error)
	CountCompletions(ctx context.Context, patrolID, challengeID uint) (int, error)
	PatrolsWithCompletion(ctx context.Context, challengeID uint) ([]uint, error)
	InsertCompletion(ctx context.Context, completion domain.Completion) (domain.Completion, error)
	DeleteCompletion(ctx context.Context, id uint) error
	DeleteCompletionsOfPatrol(ctx context.Context, patrolID uint) error
	DeleteCompletionsOfChallenge(ctx context.Context, challengeID uint) error
	AddToScore(ctx context.Context, patrolID uint, delta int) error
	UpdateChallenge(ctx context.Context, challenge domain.Challenge) (domain.Challenge, error)
	DeleteChallenge(ctx context.Context, id uint) error
	DeletePatrol(ctx context.Context, id uint) error
}

type ScoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{
		db: db,
	}
}

// InTx runs fn in a transaction; any error returned by fn rolls everything back.
func (r *ScoreRepository) InTx(ctx context.Context, fn func(tx ScoreTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&scoreTx{
			patrols:     dao.NewPatrolDAO(tx),
			challenges:  dao.NewChallengeDAO(tx),
			completions: dao.NewCompletionDAO(tx),
		})
	})
}

type scoreTx struct {
	patrols     *dao.PatrolDAO
	challenges  *dao.ChallengeDAO
	completions *dao.CompletionDAO
}

func (t *scoreTx) FindPatrol(ctx context.Context, id uint) (domain.Patrol, error) {
	found, err := t.patrols.FindByID(ctx, id)
	if err != nil {
		return domain.Patrol{}, fmt.Errorf("t.patrols.FindByID -> %w", err)
	}

	return patrolToDomain(found), nil
}

func (t *scoreTx) FindChallenge(ctx context.Context, id uint) (domain.Challenge, error) {
	found, err := t.challenges.FindByID(ctx, id)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("t.challenges.FindByID -> %w", err)
	}

	return challengeToDomain(found), nil
}

func (t *scoreTx) FindCompletion(ctx context.Context, id uint) (domain.Completion, error) {
	found, err := t.completions.FindByID(ctx, id)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("t.completions.FindByID -> %w", err)
	}

	return completionToDomain(found), nil
}

func (t *scoreTx) CompletionExists(ctx context.Context, patrolID, challengeID uint) (bool, error) {
	exists, err := t.completions.Exists(ctx, patrolID, challengeID)
	if err != nil {
		return false, fmt.Errorf("t.completions.Exists -> %w", err)
	}

	return exists, nil
}

func (t *scoreTx) CountCompletions(ctx context.Context, patrolID, challengeID uint) (int, error) {
	n, err := t.completions.Count(ctx, patrolID, challengeID)
	if err != nil {
		return 0, fmt.Errorf("t.completions.Count -> %w", err)
	}

	return int(n), nil
}

func (t *scoreTx) PatrolsWithCompletion(ctx context.Context, challengeID uint) ([]uint, error) {
	ids, err := t.completions.PatrolIDsByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("t.completions.PatrolIDsByChallenge -> %w", err)
	}

	return ids, nil
}

func (t *scoreTx) InsertCompletion(ctx context.Context, completion domain.Completion) (domain.Completion, error) {
	created, err := t.completions.Insert(ctx, dao.Completion{
		PatrolID:    completion.PatrolID,
		ChallengeID: completion.ChallengeID,
		CompletedAt: completion.CompletedAt.UTC(),
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("t.completions.Insert -> %w", err)
	}

	return domain.Completion{
		ID:          created.ID,
		PatrolID:    created.PatrolID,
		ChallengeID: created.ChallengeID,
		CompletedAt: created.CompletedAt,
	}, nil
}

func (t *scoreTx) DeleteCompletion(ctx context.Context, id uint) error {
	if err := t.completions.Delete(ctx, id); err != nil {
		return fmt.Errorf("t.completions.Delete -> %w", err)
	}

	return nil
}

func (t *scoreTx) DeleteCompletionsOfPatrol(ctx context.Context, patrolID uint) error {
	if _, err := t.completions.DeleteByPatrol(ctx, patrolID); err != nil {
		return fmt.Errorf("t.completions.DeleteByPatrol -> %w", err)
	}

	return nil
}

func (t *scoreTx) DeleteCompletionsOfChallenge(ctx context.Context, challengeID uint) error {
	if _, err := t.completions.DeleteByChallenge(ctx, challengeID); err != nil {
		return fmt.Errorf("t.completions.DeleteByChallenge -> %w", err)
	}

	return nil
}

func (t *scoreTx) AddToScore(ctx context.Context, patrolID uint, delta int) error {
	if err := t.patrols.AddScore(ctx, patrolID, delta); err != nil {
		return fmt.Errorf("t.patrols.AddScore -> %w", err)
	}

	return nil
}

func (t *scoreTx) UpdateChallenge(ctx context.Context, challenge domain.Challenge) (domain.Challenge, error) {
	updated, err := t.challenges.Update(ctx, challengeToDAO(challenge))
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("t.challenges.Update -> %w", err)
	}

	return challengeToDomain(updated), nil
}

func (t *scoreTx) DeleteChallenge(ctx context.Context, id uint) error {
	if err := t.challenges.Delete(ctx, id); err != nil {
		return fmt.Errorf("t.challenges.Delete -> %w", err)
	}

	return nil
}

func (t *scoreTx) DeletePatrol(ctx context.Context, id uint) error {
	if err := t.patrols.Delete(ctx, id); err != nil {
		return fmt.Errorf("t.patrols.Delete -> %w", err)
	}

	return nil
}
