package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borrowbox/borrowbox-backend/pkg/db"
	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

// Service exposes profile management operations and display name lookups.
type Service interface {
	CreateProfile(ctx context.Context, input CreateProfileInput) (*ProfileDTO, error)
	GetProfile(ctx context.Context, profileID uuid.UUID) (*ProfileDTO, error)
	GetProfileByEmail(ctx context.Context, email string) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, profileID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	DeleteProfile(ctx context.Context, profileID uuid.UUID) (bool, error)
	DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// CreateProfileInput holds the validated payload to register a profile.
type CreateProfileInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      *string
	Address    *string
	PictureURL *string
}

// UpdateProfileInput holds mutation values for a profile. Zero values leave
// the stored field untouched.
type UpdateProfileInput struct {
	FirstName  string
	LastName   string
	Phone      string
	Address    string
	PictureURL string
}

type service struct {
	repo *Repository
}

// NewService constructs a profile service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProfile registers a new account. The email must be unused.
func (s *service) CreateProfile(ctx context.Context, input CreateProfileInput) (*ProfileDTO, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if firstName == "" && lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	profile := &models.Profile{
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Phone:      input.Phone,
		Address:    input.Address,
		PictureURL: input.PictureURL,
	}

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert profile")
	}
	return NewProfileDTO(created), nil
}

// GetProfile loads a single profile.
func (s *service) GetProfile(ctx context.Context, profileID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return NewProfileDTO(profile), nil
}

// GetProfileByEmail loads the profile registered under the given email.
func (s *service) GetProfileByEmail(ctx context.Context, email string) (*ProfileDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return NewProfileDTO(profile), nil
}

// UpdateProfile merges the provided fields into the stored profile. Email is
// an identity field and cannot be changed here.
func (s *service) UpdateProfile(ctx context.Context, profileID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	applyUpdateToProfile(profile, input)

	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update profile")
	}
	return NewProfileDTO(updated), nil
}

// DeleteProfile removes an account; a missing profile reports deleted=false.
func (s *service) DeleteProfile(ctx context.Context, profileID uuid.UUID) (bool, error) {
	deleted, err := s.repo.Delete(ctx, profileID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete profile")
	}
	return deleted, nil
}

// DisplayNames resolves the display names for the given profile IDs. Unknown
// IDs are simply absent from the result.
func (s *service) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	rows, err := s.repo.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profiles")
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.DisplayName()
	}
	return names, nil
}

func applyUpdateToProfile(profile *models.Profile, input UpdateProfileInput) {
	if name := strings.TrimSpace(input.FirstName); name != "" {
		profile.FirstName = name
	}
	if name := strings.TrimSpace(input.LastName); name != "" {
		profile.LastName = name
	}
	if input.Phone != "" {
		value := input.Phone
		profile.Phone = &value
	}
	if input.Address != "" {
		value := input.Address
		profile.Address = &value
	}
	if input.PictureURL != "" {
		value := input.PictureURL
		profile.PictureURL = &value
	}
}
