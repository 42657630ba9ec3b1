package refresh

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JustBryant/YGOMod-Card-Database/internal/loader"
	"github.com/JustBryant/YGOMod-Card-Database/internal/source"
	"github.com/JustBryant/YGOMod-Card-Database/internal/testutil"
)

func repoDir(t *testing.T) string {
	t.Helper()

	lob := testutil.SetDocument("LOB", "Legend of Blue Eyes",
		testutil.MonsterCard(89631139), testutil.SpellCard(53129443))
	dir := t.TempDir()
	testutil.WriteRepository(t, dir, testutil.Index(lob), lob)
	return dir
}

func TestRefreshSwapsSnapshot(t *testing.T) {
	dir := repoDir(t)
	svc := NewService(loader.New(source.NewFileSource(dir), "index.json", loader.Config{}))

	if svc.Snapshot() != nil {
		t.Fatal("no snapshot should exist before the first refresh")
	}

	if err := svc.Refresh(context.Background(), "startup"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	cat := svc.Snapshot()
	if cat == nil {
		t.Fatal("snapshot missing after refresh")
	}
	if cat.NumCards() != 2 {
		t.Errorf("NumCards = %d, want 2", cat.NumCards())
	}

	meta := svc.Metadata()
	if meta.Source != "startup" {
		t.Errorf("meta.Source = %q", meta.Source)
	}
	if meta.TotalSets != 1 || meta.TotalCards != 2 {
		t.Errorf("meta counts = %d sets / %d cards", meta.TotalSets, meta.TotalCards)
	}
	if !meta.Consistent {
		t.Error("clean repository should report consistent")
	}
	if meta.LastRefresh.IsZero() {
		t.Error("LastRefresh not set")
	}
}

func TestFailedRefreshKeepsOldSnapshot(t *testing.T) {
	dir := repoDir(t)
	svc := NewService(loader.New(source.NewFileSource(dir), "index.json", loader.Config{}))

	if err := svc.Refresh(context.Background(), "startup"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	before := svc.Snapshot()
	metaBefore := svc.Metadata()

	// Corrupt the index so the next load hits an index-level failure.
	if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := svc.Refresh(context.Background(), "schedule"); err == nil {
		t.Fatal("refresh against a broken index should fail")
	}

	if svc.Snapshot() != before {
		t.Error("failed refresh must not replace the snapshot")
	}
	if svc.Metadata() != metaBefore {
		t.Error("failed refresh must not update metadata")
	}
}

func TestCancelledRefreshReportsError(t *testing.T) {
	dir := repoDir(t)
	svc := NewService(loader.New(source.NewFileSource(dir), "index.json", loader.Config{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Refresh(ctx, "manual"); err == nil {
		t.Fatal("refresh with a cancelled context should fail")
	}
	if svc.Snapshot() != nil {
		t.Error("cancelled refresh must not install a snapshot")
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	svc := NewService(loader.New(source.NewFileSource(t.TempDir()), "index.json", loader.Config{}))
	if err := svc.Start("not a cron spec"); err == nil {
		t.Error("invalid cron spec should fail")
	}
	svc.Stop()
}
