package item

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
)

func mustCreateTestItem(t *testing.T, tx *gorm.DB, ownerID uuid.UUID) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:          uuid.New(),
		Name:        "Cordless Drill",
		PricePerDay: 4.50,
		OwnerID:     ownerID,
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}
