package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
)

// ProfileDTO represents the account payload returned to clients.
type ProfileDTO struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Role        string    `json:"role"`
	PictureURL  *string   `json:"picture_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProfileDTO builds a DTO from the persisted model.
func NewProfileDTO(profile *models.Profile) *ProfileDTO {
	return &ProfileDTO{
		ID:          profile.ID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		DisplayName: profile.DisplayName(),
		Email:       profile.Email,
		Phone:       profile.Phone,
		Address:     profile.Address,
		Role:        profile.Role,
		PictureURL:  profile.PictureURL,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}
