package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the account record items and requests reference. PasswordHash
// is an opaque placeholder; credential handling is owned by the identity layer.
type Profile struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Phone        *string   `gorm:"column:phone"`
	Address      *string   `gorm:"column:address"`
	Role         string    `gorm:"column:role;not null;default:member"`
	PictureURL   *string   `gorm:"column:picture_url"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName renders the name shown next to items and requests.
func (p Profile) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
