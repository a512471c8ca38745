package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vortexsales/pos-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration dir failed validation: %v", err)
	}
}

func TestProductsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_code",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name",
		"products_stock_non_negative CHECK (stock >= 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSalesMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_sales_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sales",
		"CREATE INDEX IF NOT EXISTS idx_sales_sold_at",
		"payment_method IN ('CASH', 'CARD')",
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
		t.Fatalf("no migration file found for %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
