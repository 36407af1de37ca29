package request

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
	"github.com/borrowbox/borrowbox-backend/pkg/enums"
)

// Repository wires together borrow request persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new borrow request row.
func (r *Repository) Create(ctx context.Context, req *models.BorrowRequest) (*models.BorrowRequest, error) {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// FindByID loads the request by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPendingForOwner returns the open requests awaiting an owner decision,
// oldest first so the inbox reads in arrival order.
func (r *Repository) ListPendingForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.BorrowRequest, error) {
	var rows []models.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, enums.RequestStatusPending).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// SetStatusIfPending resolves the request only if it is still pending. The
// guard makes a request single-shot under concurrent decisions.
func (r *Repository) SetStatusIfPending(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BorrowRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Update("status", status)
	return res.RowsAffected, res.Error
}
