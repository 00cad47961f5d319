package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service wraps fleet CRUD. Every vehicle must keep at least one location
// attachment; a vehicle without one can never be found by the availability
// search.
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	Plate        string       `json:"plate"`
	Transmission Transmission `json:"transmission"`
	FuelType     FuelType     `json:"fuelType"`
	Category     Category     `json:"category"`
	DailyPrice   float64      `json:"dailyPrice"`
	Deposit      float64      `json:"deposit"`
	Features     []string     `json:"features"`
	Images       []string     `json:"images"`
	IsActive     *bool        `json:"isActive"`
	LocationIDs  []string     `json:"locationIds"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Brand) == "" {
		return fmt.Errorf("%w: brand is required", errs.ErrValidation)
	}
	if strings.TrimSpace(in.Model) == "" {
		return fmt.Errorf("%w: model is required", errs.ErrValidation)
	}
	if strings.TrimSpace(in.Plate) == "" {
		return fmt.Errorf("%w: plate is required", errs.ErrValidation)
	}
	if !ValidTransmission(in.Transmission) {
		return fmt.Errorf("%w: invalid transmission %q", errs.ErrValidation, in.Transmission)
	}
	if !ValidFuelType(in.FuelType) {
		return fmt.Errorf("%w: invalid fuel type %q", errs.ErrValidation, in.FuelType)
	}
	if !ValidCategory(in.Category) {
		return fmt.Errorf("%w: invalid category %q", errs.ErrValidation, in.Category)
	}
	if in.DailyPrice < 0 {
		return fmt.Errorf("%w: daily price must not be negative", errs.ErrValidation)
	}
	if in.Deposit < 0 {
		return fmt.Errorf("%w: deposit must not be negative", errs.ErrValidation)
	}
	if len(in.LocationIDs) == 0 {
		return fmt.Errorf("%w: at least one location is required", errs.ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	plate := strings.ToUpper(strings.TrimSpace(in.Plate))
	if existing, err := s.repo.FindByPlate(ctx, plate); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: plate %s is already registered", errs.ErrValidation, plate)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	v := &Vehicle{
		ID:           uuid.NewString(),
		Brand:        strings.TrimSpace(in.Brand),
		Model:        strings.TrimSpace(in.Model),
		Year:         in.Year,
		Plate:        plate,
		Transmission: in.Transmission,
		FuelType:     in.FuelType,
		Category:     in.Category,
		DailyPrice:   in.DailyPrice,
		Deposit:      in.Deposit,
		Features:     in.Features,
		Images:       in.Images,
		IsActive:     active,
	}
	if err := s.repo.Create(ctx, v, in.LocationIDs); err != nil {
		return nil, err
	}
	return s.Get(ctx, v.ID)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The plate is the immutable business key.
	if plate := strings.ToUpper(strings.TrimSpace(in.Plate)); plate != v.Plate {
		return nil, fmt.Errorf("%w: plate cannot be changed", errs.ErrValidation)
	}

	v.Brand = strings.TrimSpace(in.Brand)
	v.Model = strings.TrimSpace(in.Model)
	v.Year = in.Year
	v.Transmission = in.Transmission
	v.FuelType = in.FuelType
	v.Category = in.Category
	v.DailyPrice = in.DailyPrice
	v.Deposit = in.Deposit
	v.Features = in.Features
	v.Images = in.Images
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	v.Locations = nil

	if err := s.repo.Update(ctx, v, in.LocationIDs); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Vehicle, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
