package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scoutcamp/campo/internal/config"
	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/pkg/jwthelper"
	"github.com/scoutcamp/campo/internal/pkg/password"
	"github.com/scoutcamp/campo/internal/repository"
)

var (
	ErrWrongCredentials = errors.New("wrong username or password")
	ErrUserNotFound     = repository.ErrUserNotFound
)

type AuthUserRepository interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type AuthService struct {
	repo AuthUserRepository
	conf *config.AuthConfig
	now  func() time.Time
}

func NewAuthService(repo AuthUserRepository, conf *config.AuthConfig) *AuthService {
	return &AuthService{
		repo: repo,
		conf: conf,
		now:  time.Now,
	}
}

// Login checks the credentials. Hashes in an outdated format are replaced
// with a fresh argon2id hash once the password is known to be right.
func (s *AuthService) Login(ctx context.Context, username, plain string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrWrongCredentials
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = password.Verify(plain, user.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			zap.L().Warn("unreadable password hash", zap.String("username", username), zap.Error(err))
		}

		return domain.User{}, ErrWrongCredentials
	}

	if password.NeedsRehash(user.Password) {
		s.rehash(ctx, user, plain)
	}

	return user, nil
}

func (s *AuthService) rehash(ctx context.Context, user domain.User, plain string) {
	hash, err := password.Hash(plain)
	if err != nil {
		zap.L().Error("password.Hash", zap.Error(err))
		return
	}

	if err = s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		zap.L().Error("s.repo.UpdatePassword", zap.String("username", user.Username), zap.Error(err))
		return
	}

	zap.L().Info("password hash upgraded", zap.String("username", user.Username))
}

// IssueSession returns a signed session token for user.
func (s *AuthService) IssueSession(user domain.User) (string, error) {
	token, err := jwthelper.GenerateToken([]byte(s.conf.SigningKey), user.Username, s.conf.SessionTTL, s.now())
	if err != nil {
		return "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return token, nil
}

// Authenticate resolves a session token to its user. Any problem with the
// token or its subject yields ok == false.
func (s *AuthService) Authenticate(ctx context.Context, token string) (user domain.User, ok bool) {
	if token == "" {
		return domain.User{}, false
	}

	claims, err := jwthelper.ParseToken([]byte(s.conf.SigningKey), token)
	if err != nil {
		zap.L().Debug("session rejected", zap.Error(err))
		return domain.User{}, false
	}

	user, err = s.repo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			zap.L().Error("s.repo.FindByUsername", zap.Error(err))
		}

		return domain.User{}, false
	}

	return user, true
}

func (s *AuthService) Config() *config.AuthConfig {
	return s.conf
}
