package lending

import (
	"time"

	"github.com/google/uuid"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
)

// RequestDTO represents the borrow request payload returned to clients.
// ItemName reflects the item at submission time, not its current name.
type RequestDTO struct {
	ID           uuid.UUID  `json:"id"`
	ItemID       uuid.UUID  `json:"item_id"`
	ItemName     string     `json:"item_name"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	OwnerName    string     `json:"owner_name,omitempty"`
	BorrowerID   uuid.UUID  `json:"borrower_id"`
	BorrowerName string     `json:"borrower_name,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewRequestDTO builds a DTO from the persisted model.
func NewRequestDTO(req *models.BorrowRequest) *RequestDTO {
	return &RequestDTO{
		ID:         req.ID,
		ItemID:     req.ItemID,
		ItemName:   req.ItemName,
		OwnerID:    req.OwnerID,
		BorrowerID: req.BorrowerID,
		DueAt:      req.DueAt,
		Status:     req.Status.String(),
		CreatedAt:  req.CreatedAt,
	}
}
