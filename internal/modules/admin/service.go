package admin

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	jwtsvc "internhub/internal/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AccountStore is the account lookup the login path needs.
// *Repository is the production implementation.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

// StatsSource provides the submission counters shown on the dashboard.
// The application repository is the production implementation.
type StatsSource interface {
	Count(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, t time.Time) (int, error)
}

// Service handles dashboard authentication and stats.
type Service struct {
	repo  AccountStore
	stats StatsSource
	jwt   *jwtsvc.Service
}

func NewService(repo AccountStore, stats StatsSource, jwt *jwtsvc.Service) *Service {
	return &Service{repo: repo, stats: stats, jwt: jwt}
}

// Login verifies the password and issues a dashboard token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(account.ID, account.Email)
}

// Stats returns the dashboard counters.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	total, err := s.stats.Count(ctx)
	if err != nil {
		return nil, err
	}
	last24h, err := s.stats.CountCreatedSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	return &StatsResponse{TotalApplications: total, Last24h: last24h}, nil
}
