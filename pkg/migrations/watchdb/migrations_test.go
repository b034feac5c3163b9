package watchdb

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun/migrate"

	"github.com/sharktamer/gtsnotifier/pkg/pgutil"
)

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed migration tests")
}

func TestMigrations_UpAndDown(t *testing.T) {
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if group.IsZero() {
		t.Fatal("expected migrations to run on a fresh database")
	}

	pgutil.AssertTableExists(t, db, "watch_entries")

	if _, err := migrator.Rollback(ctx); err != nil {
		t.Fatalf("Rollback() failed: %v", err)
	}
}
