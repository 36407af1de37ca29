package item

import (
	"time"

	"github.com/google/uuid"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
)

// ItemDTO represents the item payload returned to clients. OwnerName and
// BorrowerName are display names resolved at read time.
type ItemDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	PricePerDay  float64    `json:"price_per_day"`
	PictureURL   *string    `json:"picture_url,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Condition    *string    `json:"condition,omitempty"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	OwnerName    string     `json:"owner_name,omitempty"`
	Lent         bool       `json:"lent"`
	BorrowerID   *uuid.UUID `json:"borrower_id,omitempty"`
	BorrowerName string     `json:"borrower_name,omitempty"`
	BorrowedOn   *time.Time `json:"borrowed_on,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewItemDTO builds a DTO from the persisted model.
func NewItemDTO(item *models.Item) *ItemDTO {
	return &ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		PricePerDay: item.PricePerDay,
		PictureURL:  item.PictureURL,
		Location:    item.Location,
		Condition:   item.Condition,
		OwnerID:     item.OwnerID,
		Lent:        item.Lent,
		BorrowerID:  item.BorrowerID,
		BorrowedOn:  item.BorrowedOn,
		DueAt:       item.DueAt,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
