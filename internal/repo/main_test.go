package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/struchkova/konakovo-backend/migrations"
	"github.com/struchkova/konakovo-backend/testutil"
)

// TestMain applies all pending migrations to the test database once for the
// whole package, so individual tests never need to think about schema state.
func TestMain(m *testing.M) {
	if testutil.DSN() == "" {
		// No test DB configured; every test skips itself via testutil.NewPool.
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(testutil.DSN())
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}
