package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service wraps branch CRUD with input validation.
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	WorkingHours string `json:"workingHours"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", errs.ErrValidation)
	}
	if strings.TrimSpace(in.Address) == "" {
		return fmt.Errorf("%w: address is required", errs.ErrValidation)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return fmt.Errorf("%w: phone is required", errs.ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Location, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	l := &Location{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		WorkingHours: strings.TrimSpace(in.WorkingHours),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Location, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Name = strings.TrimSpace(in.Name)
	l.Address = strings.TrimSpace(in.Address)
	l.Phone = strings.TrimSpace(in.Phone)
	l.WorkingHours = strings.TrimSpace(in.WorkingHours)

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Location, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: location %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) List(ctx context.Context) ([]Location, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
