package item

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
)

// Repository wires together item persistence helpers.
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

// Create inserts a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads the item by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update persists the full item row.
func (r *Repository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by ID and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns every item, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Item, error) {
	var rows []models.Item
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListByOwner returns the items listed by the given owner.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error) {
	var rows []models.Item
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListByBorrower returns the items currently held by the given borrower.
func (r *Repository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.Item, error) {
	var rows []models.Item
	err := r.db.WithContext(ctx).
		Where("borrower_id = ? AND lent = ?", borrowerID, true).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// MarkBorrowed flips the item into the lent state only if it is still
// available. The WHERE guard makes concurrent accepts race-safe: exactly one
// caller observes a row count of 1.
func (r *Repository) MarkBorrowed(ctx context.Context, itemID, borrowerID uuid.UUID, borrowedOn time.Time, dueAt *time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND lent = ?", itemID, false).
		Updates(map[string]any{
			"lent":        true,
			"borrower_id": borrowerID,
			"borrowed_on": borrowedOn,
			"due_at":      dueAt,
		})
	return res.RowsAffected, res.Error
}

// MarkReturned clears the lent state only if the item is currently out.
func (r *Repository) MarkReturned(ctx context.Context, itemID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND lent = ?", itemID, true).
		Updates(map[string]any{
			"lent":        false,
			"borrower_id": nil,
			"borrowed_on": nil,
			"due_at":      nil,
		})
	return res.RowsAffected, res.Error
}
