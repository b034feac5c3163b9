package watchstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"github.com/sharktamer/gtsnotifier/pkg/pgutil"
	mghelper "github.com/sharktamer/gtsnotifier/pkg/pgutil/migrations"
	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

func setupStore(t *testing.T) (context.Context, *bun.DB, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &EntryDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, db, NewStore(db)
}

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

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed watchstore tests")
}

func newTestEntry(profileID string) *watch.Entry {
	e := watch.New(profileID, "acc-"+profileID, "save-"+profileID, "dest-"+profileID, watch.ChannelPush)
	return e
}

func TestWatchPGStore_CreateAndGetEntry(t *testing.T) {
	ctx, _, s := setupStore(t)

	e := newTestEntry("alice")
	if err := s.CreateEntry(ctx, e); err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}

	got, err := s.GetEntry(ctx, "alice")
	if err != nil {
		t.Fatalf("GetEntry() failed: %v", err)
	}
	if got.AccountID != e.AccountID || got.SaveDataID != e.SaveDataID {
		t.Fatalf("entry mismatch: got %+v want %+v", got, e)
	}
	if got.Channel != watch.ChannelPush {
		t.Fatalf("channel mismatch: %q", got.Channel)
	}
	if !got.NeverNotified() {
		t.Fatalf("fresh entry must have an unset watermark, got %q", got.Watermark)
	}

	if _, err := s.GetEntry(ctx, "nobody"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestWatchPGStore_DuplicateProfileRejected(t *testing.T) {
	ctx, _, s := setupStore(t)

	if err := s.CreateEntry(ctx, newTestEntry("alice")); err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}
	if err := s.CreateEntry(ctx, newTestEntry("alice")); err == nil {
		t.Fatal("expected primary key violation for duplicate profile")
	}
}

func TestWatchPGStore_EntryExists(t *testing.T) {
	ctx, _, s := setupStore(t)

	exists, err := s.EntryExists(ctx, "alice")
	if err != nil {
		t.Fatalf("EntryExists() failed: %v", err)
	}
	if exists {
		t.Fatal("entry must not exist before creation")
	}

	if err := s.CreateEntry(ctx, newTestEntry("alice")); err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}

	exists, err = s.EntryExists(ctx, "alice")
	if err != nil {
		t.Fatalf("EntryExists() failed: %v", err)
	}
	if !exists {
		t.Fatal("entry must exist after creation")
	}
}

func TestWatchPGStore_ListEntriesOrdered(t *testing.T) {
	ctx, db, s := setupStore(t)

	for _, id := range []string{"first", "second", "third"} {
		if err := s.CreateEntry(ctx, newTestEntry(id)); err != nil {
			t.Fatalf("CreateEntry(%s) failed: %v", id, err)
		}
	}
	pgutil.AssertRowCount(t, db, "watch_entries", 3)

	entries, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestWatchPGStore_UpdateWatermark(t *testing.T) {
	ctx, _, s := setupStore(t)

	if err := s.CreateEntry(ctx, newTestEntry("alice")); err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}

	if err := s.UpdateWatermark(ctx, "alice", "2014/06/01 12:00"); err != nil {
		t.Fatalf("UpdateWatermark() failed: %v", err)
	}

	got, err := s.GetEntry(ctx, "alice")
	if err != nil {
		t.Fatalf("GetEntry() failed: %v", err)
	}
	if got.Watermark != "2014/06/01 12:00" {
		t.Fatalf("watermark = %q", got.Watermark)
	}

	if err := s.UpdateWatermark(ctx, "nobody", "x"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for missing entry, got %v", err)
	}
}

func TestWatchPGStore_DeleteEntry(t *testing.T) {
	ctx, db, s := setupStore(t)

	if err := s.CreateEntry(ctx, newTestEntry("alice")); err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}

	if err := s.DeleteEntry(ctx, "alice"); err != nil {
		t.Fatalf("DeleteEntry() failed: %v", err)
	}
	pgutil.AssertRowCount(t, db, "watch_entries", 0)

	if _, err := s.GetEntry(ctx, "alice"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound after delete, got %v", err)
	}

	if err := s.DeleteEntry(ctx, "alice"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for second delete, got %v", err)
	}
}
