// Package testutil holds helpers for Postgres-backed integration tests.
// Tests using it skip unless TEST_DATABASE_URL points at a disposable database.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/migrations"
	"github.com/boreksan/trayorders/pkg/config"
	"github.com/boreksan/trayorders/pkg/database"
	"github.com/boreksan/trayorders/pkg/logger"
	"github.com/boreksan/trayorders/pkg/migrator"
)

// testDBLockID serialises integration test packages that share one database.
const testDBLockID int64 = 720145231

// NewTestDatabase connects to TEST_DATABASE_URL, applies every migration and
// truncates all tables. The connection is closed when the test ends.
func NewTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := logger.New(&config.Config{LogLevel: "error"})
	d, err := database.NewPool(ctx, dsn, log)
	if err != nil {
		t.Skipf("skipping Postgres integration tests: %v", err)
	}
	t.Cleanup(d.Close)

	lockTestDB(t, d.DB())

	if err := migrator.Up(ctx, d.DB(), migrations.FS, log); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	TruncateAll(t, d.DB())
	return d
}

// TruncateAll empties every domain table.
func TruncateAll(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(`TRUNCATE order_items, orders, products, shops CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

// InsertShop creates a shop account and returns its id.
func InsertShop(t *testing.T, db *sql.DB, accountName, displayName, role string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`
INSERT INTO shops (id, account_name, display_name, role, phone, address)
VALUES ($1, $2, $3, $4, $5, $6)`,
		id, accountName, displayName, role, "+90 212 000 00 00", "Kadıköy, İstanbul",
	)
	if err != nil {
		t.Fatalf("insert shop: %v", err)
	}
	return id
}

// InsertProduct creates a product with the given tray price and returns its id.
func InsertProduct(t *testing.T, db *sql.DB, name, priceTray string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`
INSERT INTO products (id, name, description, price_portion, price_tray)
VALUES ($1, $2, '', 0, $3)`,
		id, name, priceTray,
	)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func lockTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("acquire lock conn: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, testDBLockID); err != nil {
		_ = conn.Close()
		t.Fatalf("acquire test lock: %v", err)
	}

	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, testDBLockID)
		_ = conn.Close()
	})
}
