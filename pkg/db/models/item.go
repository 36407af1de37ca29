package models

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a lendable physical object listing. Lent is true exactly
// when BorrowerID is set; BorrowedOn and DueAt are cleared together with it.
type Item struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	PricePerDay float64    `gorm:"column:price_per_day;type:numeric(10,2);not null;default:0"`
	PictureURL  *string    `gorm:"column:picture_url"`
	Location    *string    `gorm:"column:location"`
	Condition   *string    `gorm:"column:condition"`
	OwnerID     uuid.UUID  `gorm:"column:owner_id;type:uuid;not null"`
	Lent        bool       `gorm:"column:lent;not null;default:false"`
	BorrowerID  *uuid.UUID `gorm:"column:borrower_id;type:uuid"`
	BorrowedOn  *time.Time `gorm:"column:borrowed_on"`
	DueAt       *time.Time `gorm:"column:due_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
