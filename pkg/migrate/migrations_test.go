package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swapsafe/swapsafe-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestMigrationsCreateDomainTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}

	var all strings.Builder
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		all.Write(data)
	}
	content := all.String()

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS transactions",
		"CREATE TABLE IF NOT EXISTS transaction_sequences",
		"CREATE TABLE IF NOT EXISTS disputes",
		"CREATE TABLE IF NOT EXISTS dispute_evidence",
		"CREATE TABLE IF NOT EXISTS notifications",
		"CREATE TABLE IF NOT EXISTS wishlist_items",
		"escrow_status IN ('processing', 'secured', 'held', 'released')",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_seq",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Listing Flags!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_listing_flags.sql") {
		t.Fatalf("unexpected file name %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}
