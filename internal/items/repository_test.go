package item

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRepositoryMarkBorrowedGuard(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	owner := uuid.New()
	borrower := uuid.New()
	created := mustCreateTestItem(t, tx, owner)

	now := time.Now().UTC()
	rows, err := repo.MarkBorrowed(ctx, created.ID, borrower, now, nil)
	if err != nil {
		t.Fatalf("mark borrowed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row updated, got %d", rows)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if !fetched.Lent {
		t.Fatal("expected item to be lent")
	}
	if fetched.BorrowerID == nil || *fetched.BorrowerID != borrower {
		t.Fatalf("expected borrower %s, got %v", borrower, fetched.BorrowerID)
	}

	// Second attempt must lose the guard.
	rows, err = repo.MarkBorrowed(ctx, created.ID, uuid.New(), now, nil)
	if err != nil {
		t.Fatalf("second mark borrowed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows on already lent item, got %d", rows)
	}
}

func TestRepositoryMarkReturnedClearsLoanFields(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	created := mustCreateTestItem(t, tx, uuid.New())

	rows, err := repo.MarkReturned(ctx, created.ID)
	if err != nil {
		t.Fatalf("mark returned: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows on available item, got %d", rows)
	}

	due := time.Now().UTC().Add(48 * time.Hour)
	if _, err := repo.MarkBorrowed(ctx, created.ID, uuid.New(), time.Now().UTC(), &due); err != nil {
		t.Fatalf("mark borrowed: %v", err)
	}

	rows, err = repo.MarkReturned(ctx, created.ID)
	if err != nil {
		t.Fatalf("mark returned: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row updated, got %d", rows)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if fetched.Lent {
		t.Fatal("expected item to be available again")
	}
	if fetched.BorrowerID != nil || fetched.BorrowedOn != nil || fetched.DueAt != nil {
		t.Fatal("expected loan fields to be cleared")
	}
}

func TestRepositoryListByBorrowerOnlyActiveLoans(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	borrower := uuid.New()
	lentItem := mustCreateTestItem(t, tx, uuid.New())
	idleItem := mustCreateTestItem(t, tx, uuid.New())

	if _, err := repo.MarkBorrowed(ctx, lentItem.ID, borrower, time.Now().UTC(), nil); err != nil {
		t.Fatalf("mark borrowed: %v", err)
	}

	rows, err := repo.ListByBorrower(ctx, borrower)
	if err != nil {
		t.Fatalf("list by borrower: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 item, got %d", len(rows))
	}
	if rows[0].ID != lentItem.ID {
		t.Fatalf("expected item %s, got %s", lentItem.ID, rows[0].ID)
	}
	_ = idleItem
}

func TestRepositoryDeleteReportsMissingRow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	created := mustCreateTestItem(t, tx, uuid.New())

	deleted, err := repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report an affected row")
	}

	deleted, err = repo.Delete(ctx, uuid.New())
	if err != nil {
		t.Fatalf("delete missing item: %v", err)
	}
	if deleted {
		t.Fatal("expected delete on missing item to report false")
	}
}
