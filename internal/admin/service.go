package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/driveport/driveport/internal/common/auth"
	"github.com/driveport/driveport/internal/common/config"
	"github.com/driveport/driveport/internal/common/errs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service handles back-office authentication.
type Service struct {
	repo *Repo
	cfg  config.AuthConfig
}

func NewService(repo *Repo, cfg config.AuthConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     *Admin    `json:"admin"`
}

// Login checks credentials and issues an access token. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", errs.ErrValidation)
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, a.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", errs.ErrValidation)
	}

	ttl := time.Duration(s.cfg.TokenTTLMinutes) * time.Minute
	token, expiresAt, err := auth.GenerateAccessToken(s.cfg, a.ID, []string{a.Role}, ttl)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: a}, nil
}

// EnsureDefault seeds a first admin account when none exists, so a fresh
// deployment is reachable.
func (s *Service) EnsureDefault(ctx context.Context, email, password, name string) error {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, &Admin{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Name:         name,
		Role:         RoleAdmin,
	})
}
