package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/borrowbox/borrowbox-backend/pkg/enums"
)

// BorrowRequest is a borrower's ask to loan a specific item. ItemName and
// OwnerID are snapshots taken at creation time and are intentionally not kept
// in sync with later item edits.
type BorrowRequest struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID     uuid.UUID           `gorm:"column:item_id;type:uuid;not null"`
	ItemName   string              `gorm:"column:item_name;not null"`
	OwnerID    uuid.UUID           `gorm:"column:owner_id;type:uuid;not null"`
	BorrowerID uuid.UUID           `gorm:"column:borrower_id;type:uuid;not null"`
	DueAt      *time.Time          `gorm:"column:due_at"`
	Status     enums.RequestStatus `gorm:"column:status;not null;default:pending"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
}
