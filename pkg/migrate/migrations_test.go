package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/borrowbox/borrowbox-backend/pkg/migrate"
)

func TestMigrationsDirectoryIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestItemsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_items.sql")

	checks := []string{
		"CREATE TABLE items",
		"lent BOOLEAN NOT NULL DEFAULT FALSE",
		"CONSTRAINT items_lent_state CHECK",
		"CREATE INDEX idx_items_owner ON items (owner_id)",
		"CREATE INDEX idx_items_borrower ON items (borrower_id) WHERE borrower_id IS NOT NULL",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestBorrowRequestsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_borrow_requests.sql")

	checks := []string{
		"CREATE TABLE borrow_requests",
		"status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'denied'))",
		"CREATE INDEX idx_borrow_requests_owner_pending ON borrow_requests (owner_id) WHERE status = 'pending'",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
