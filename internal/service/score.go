package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
)

var (
	ErrAlreadyCompleted   = repository.ErrAlreadyCompleted
	ErrPatrolNotFound     = repository.ErrPatrolNotFound
	ErrChallengeNotFound  = repository.ErrChallengeNotFound
	ErrCompletionNotFound = repository.ErrCompletionNotFound
)

type ScoreRepository interface {
	InTx(ctx context.Context, fn func(tx repository.ScoreTx) error) error
}

// ChallengeEdit carries the editable challenge fields. Retroactive asks for
// a points change to be applied to every completion already recorded.
type ChallengeEdit struct {
	Name         string
	Description  string
	Points       int
	RewardTokens int
	IsFungo      bool
	Retroactive  bool
}

// ScoreService is the only writer of Patrol.Score. Every operation runs in a
// single transaction so completions and scores never drift apart.
type ScoreService struct {
	repo ScoreRepository
}

func NewScoreService(repo ScoreRepository) *ScoreService {
	return &ScoreService{
		repo: repo,
	}
}

// Complete records that the patrol finished the challenge and adds the
// challenge points to its score. A zero at means now.
func (s *ScoreService) Complete(ctx context.Context, patrolID, challengeID uint, at time.Time) (domain.Completion, error) {
	if at.IsZero() {
		at = time.Now()
	}

	var completion domain.Completion
	err := s.repo.InTx(ctx, func(tx repository.ScoreTx) error {
		patrol, err := tx.FindPatrol(ctx, patrolID)
		if err != nil {
			return fmt.Errorf("tx.FindPatrol -> %w", err)
		}
		challenge, err := tx.FindChallenge(ctx, challengeID)
		if err != nil {
			return fmt.Errorf("tx.FindChallenge -> %w", err)
		}

		exists, err := tx.CompletionExists(ctx, patrol.ID, challenge.ID)
		if err != nil {
			return fmt.Errorf("tx.CompletionExists -> %w", err)
		}
		if exists {
			return ErrAlreadyCompleted
		}

		completion, err = tx.InsertCompletion(ctx, domain.Completion{
			PatrolID:    patrol.ID,
			ChallengeID: challenge.ID,
			CompletedAt: at.UTC(),
		})
		if err != nil {
			return fmt.Errorf("tx.InsertCompletion -> %w", err)
		}

		if err = tx.AddToScore(ctx, patrol.ID, challenge.Points); err != nil {
			return fmt.Errorf("tx.AddToScore -> %w", err)
		}

		patrol.Score += challenge.Points
		completion.Patrol = patrol
		completion.Challenge = challenge

		return nil
	})
	if err != nil {
		return domain.Completion{}, err
	}

	zap.L().Info("challenge completed",
		zap.String("patrol", completion.Patrol.Name),
		zap.String("challenge", completion.Challenge.Name),
		zap.Int("points", completion.Challenge.Points))

	return completion, nil
}

// Rollback removes a completion and takes its points back from the patrol.
func (s *ScoreService) Rollback(ctx context.Context, completionID uint) (domain.Completion, error) {
	var completion domain.Completion
	err := s.repo.InTx(ctx, func(tx repository.ScoreTx) error {
		var err error
		completion, err = tx.FindCompletion(ctx, completionID)
		if err != nil {
			return fmt.Errorf("tx.FindCompletion -> %w", err)
		}

		if err = tx.AddToScore(ctx, completion.PatrolID, -completion.Challenge.Points); err != nil {
			return fmt.Errorf("tx.AddToScore -> %w", err)
		}

		if err = tx.DeleteCompletion(ctx, completion.ID); err != nil {
			return fmt.Errorf("tx.DeleteCompletion -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Completion{}, err
	}

	zap.L().Info("completion rolled back",
		zap.Uint("completion_id", completion.ID),
		zap.String("patrol", completion.Patrol.Name),
		zap.Int("points", completion.Challenge.Points))

	return completion, nil
}

// EditChallenge updates the challenge. When the points change and
// edit.Retroactive is set, every patrol is credited diff times the number of
// completions it holds for this challenge.
func (s *ScoreService) EditChallenge(ctx context.Context, id uint, edit ChallengeEdit) (domain.Challenge, error) {
	var updated domain.Challenge
	err := s.repo.InTx(ctx, func(tx repository.ScoreTx) error {
		current, err := tx.FindChallenge(ctx, id)
		if err != nil {
			return fmt.Errorf("tx.FindChallenge -> %w", err)
		}

		updated, err = tx.UpdateChallenge(ctx, domain.Challenge{
			ID:           current.ID,
			Name:         edit.Name,
			Description:  edit.Description,
			Points:       edit.Points,
			RewardTokens: edit.RewardTokens,
			IsFungo:      edit.IsFungo,
		})
		if err != nil {
			return fmt.Errorf("tx.UpdateChallenge -> %w", err)
		}

		diff := edit.Points - current.Points
		if !edit.Retroactive || diff == 0 {
			return nil
		}

		return adjustScores(ctx, tx, id, diff)
	})
	if err != nil {
		return domain.Challenge{}, err
	}

	return updated, nil
}

// DeleteChallenge removes the challenge with its completions and takes the
// awarded points back from every affected patrol.
func (s *ScoreService) DeleteChallenge(ctx context.Context, id uint) error {
	return s.repo.InTx(ctx, func(tx repository.ScoreTx) error {
		challenge, err := tx.FindChallenge(ctx, id)
		if err != nil {
			return fmt.Errorf("tx.FindChallenge -> %w", err)
		}

		if err = adjustScores(ctx, tx, id, -challenge.Points); err != nil {
			return err
		}

		if err = tx.DeleteCompletionsOfChallenge(ctx, id); err != nil {
			return fmt.Errorf("tx.DeleteCompletionsOfChallenge -> %w", err)
		}
		if err = tx.DeleteChallenge(ctx, id); err != nil {
			return fmt.Errorf("tx.DeleteChallenge -> %w", err)
		}

		return nil
	})
}

func (s *ScoreService) DeletePatrol(ctx context.Context, id uint) error {
	return s.repo.InTx(ctx, func(tx repository.ScoreTx) error {
		if _, err := tx.FindPatrol(ctx, id); err != nil {
			return fmt.Errorf("tx.FindPatrol -> %w", err)
		}

		if err := tx.DeleteCompletionsOfPatrol(ctx, id); err != nil {
			return fmt.Errorf("tx.DeleteCompletionsOfPatrol -> %w", err)
		}
		if err := tx.DeletePatrol(ctx, id); err != nil {
			return fmt.Errorf("tx.DeletePatrol -> %w", err)
		}

		return nil
	})
}

// adjustScores adds perCompletion once for every completion of the challenge.
// Counts are read inside tx so concurrent completions are accounted for.
func adjustScores(ctx context.Context, tx repository.ScoreTx, challengeID uint, perCompletion int) error {
	patrolIDs, err := tx.PatrolsWithCompletion(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("tx.PatrolsWithCompletion -> %w", err)
	}

	for _, patrolID := range patrolIDs {
		count, err := tx.CountCompletions(ctx, patrolID, challengeID)
		if err != nil {
			return fmt.Errorf("tx.CountCompletions -> %w", err)
		}
		if count == 0 {
			continue
		}

		if err = tx.AddToScore(ctx, patrolID, perCompletion*count); err != nil {
			return fmt.Errorf("tx.AddToScore -> %w", err)
		}
	}

	return nil
}
