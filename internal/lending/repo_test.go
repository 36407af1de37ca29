package lending

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	item "github.com/borrowbox/borrowbox-backend/internal/items"
	request "github.com/borrowbox/borrowbox-backend/internal/requests"
	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
	"github.com/borrowbox/borrowbox-backend/pkg/enums"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

func setupLendingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	items := `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price_per_day NUMERIC NOT NULL DEFAULT 0,
  picture_url TEXT,
  location TEXT,
  condition TEXT,
  owner_id TEXT NOT NULL,
  lent INTEGER NOT NULL DEFAULT 0,
  borrower_id TEXT,
  borrowed_on DATETIME,
  due_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	borrowRequests := `
CREATE TABLE IF NOT EXISTS borrow_requests (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  borrower_id TEXT NOT NULL,
  due_at DATETIME,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(items).Error)
	require.NoError(t, db.Exec(borrowRequests).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newDBTestService(db *gorm.DB) *service {
	itemRepo := item.NewRepository(db)
	requestRepo := request.NewRepository(db)
	return &service{
		items:    itemRepo,
		requests: requestRepo,
		tx:       gormTxRunner{db: db},
		names:    stubNameResolver{},
		bindItems: func(tx *gorm.DB) itemStore {
			return itemRepo.WithTx(tx)
		},
		bindRequests: func(tx *gorm.DB) requestStore {
			return requestRepo.WithTx(tx)
		},
		now: time.Now,
	}
}

func seedItem(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.Item {
	t.Helper()

	row := &models.Item{
		ID:          uuid.New(),
		Name:        "Circular Saw",
		PricePerDay: 7.5,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func seedRequest(t *testing.T, db *gorm.DB, target *models.Item, borrowerID uuid.UUID, dueAt *time.Time) *models.BorrowRequest {
	t.Helper()

	row := &models.BorrowRequest{
		ID:         uuid.New(),
		ItemID:     target.ID,
		ItemName:   target.Name,
		OwnerID:    target.OwnerID,
		BorrowerID: borrowerID,
		DueAt:      dueAt,
		Status:     enums.RequestStatusPending,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRespondAcceptPersistsLoan(t *testing.T) {
	db := setupLendingTestDB(t)
	svc := newDBTestService(db)
	ctx := context.Background()

	ownerID := uuid.New()
	borrowerID := uuid.New()
	dueAt := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)

	target := seedItem(t, db, ownerID)
	req := seedRequest(t, db, target, borrowerID, &dueAt)

	resolved, err := svc.Respond(ctx, req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusAccepted.String(), resolved.Status)

	var stored models.Item
	require.NoError(t, db.First(&stored, "id = ?", target.ID).Error)
	assert.True(t, stored.Lent)
	require.NotNil(t, stored.BorrowerID)
	assert.Equal(t, borrowerID, *stored.BorrowerID)
	require.NotNil(t, stored.DueAt)
	assert.WithinDuration(t, dueAt, *stored.DueAt, time.Second)
}

func TestRespondAcceptSecondRequestConflicts(t *testing.T) {
	db := setupLendingTestDB(t)
	svc := newDBTestService(db)
	ctx := context.Background()

	ownerID := uuid.New()
	target := seedItem(t, db, ownerID)
	first := seedRequest(t, db, target, uuid.New(), nil)
	second := seedRequest(t, db, target, uuid.New(), nil)

	_, err := svc.Respond(ctx, first.ID, true)
	require.NoError(t, err)

	_, err = svc.Respond(ctx, second.ID, true)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// loser stays pending so the owner can deny it later
	var stored models.BorrowRequest
	require.NoError(t, db.First(&stored, "id = ?", second.ID).Error)
	assert.Equal(t, enums.RequestStatusPending, stored.Status)

	resolved, err := svc.Respond(ctx, second.ID, false)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusDenied.String(), resolved.Status)
}

func TestReturnThenBorrowAgain(t *testing.T) {
	db := setupLendingTestDB(t)
	svc := newDBTestService(db)
	ctx := context.Background()

	ownerID := uuid.New()
	target := seedItem(t, db, ownerID)

	firstBorrower := uuid.New()
	require.NoError(t, svc.BorrowItem(ctx, BorrowInput{ItemID: target.ID, BorrowerID: firstBorrower}))

	err := svc.BorrowItem(ctx, BorrowInput{ItemID: target.ID, BorrowerID: uuid.New()})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, svc.ReturnItem(ctx, target.ID))

	var stored models.Item
	require.NoError(t, db.First(&stored, "id = ?", target.ID).Error)
	assert.False(t, stored.Lent)
	assert.Nil(t, stored.BorrowerID)
	assert.Nil(t, stored.BorrowedOn)
	assert.Nil(t, stored.DueAt)

	require.NoError(t, svc.BorrowItem(ctx, BorrowInput{ItemID: target.ID, BorrowerID: uuid.New()}))
}
