package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resumedj/sitegen/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := database.MigrateUp(context.Background()); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return database
}

func TestBuildRepositoryCreateAndGet(t *testing.T) {
	database := openTestDB(t)
	repo := NewBuildRepository(database)
	ctx := context.Background()

	record := &models.BuildRecord{
		Theme:          "earthtone",
		PageCount:      4,
		FileCount:      8,
		TotalBytes:     40960,
		ContentHash:    "a1b2c3",
		Status:         models.BuildStatusSucceeded,
		DurationMillis: 120,
		Metadata:       map[string]string{"host": "ci"},
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.ID == "" {
		t.Fatal("expected generated ID")
	}
	if record.RecordedAt.IsZero() {
		t.Fatal("expected RecordedAt to be set")
	}

	got, err := repo.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Theme != "earthtone" || got.Status != models.BuildStatusSucceeded {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.ContentHash != "a1b2c3" {
		t.Fatalf("unexpected content hash: %q", got.ContentHash)
	}
	if got.Metadata["host"] != "ci" {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
}

func TestBuildRepositoryCreateInvalid(t *testing.T) {
	database := openTestDB(t)
	repo := NewBuildRepository(database)

	err := repo.Create(context.Background(), &models.BuildRecord{Theme: "earthtone"})
	if !errors.Is(err, ErrInvalidBuild) {
		t.Fatalf("expected ErrInvalidBuild, got %v", err)
	}
}

func TestBuildRepositoryLatest(t *testing.T) {
	database := openTestDB(t)
	repo := NewBuildRepository(database)
	ctx := context.Background()

	if _, err := repo.Latest(ctx); !errors.Is(err, ErrBuildNotFound) {
		t.Fatalf("expected ErrBuildNotFound on empty history, got %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, theme := range []string{"bluesteel", "bluesteel", "earthtone"} {
		record := &models.BuildRecord{
			Theme:      theme,
			Status:     models.BuildStatusSucceeded,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	latest, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Theme != "earthtone" {
		t.Fatalf("expected latest build with theme earthtone, got %q", latest.Theme)
	}
}

func TestBuildRepositoryQuery(t *testing.T) {
	database := openTestDB(t)
	repo := NewBuildRepository(database)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	statuses := []models.BuildStatus{
		models.BuildStatusSucceeded,
		models.BuildStatusFailed,
		models.BuildStatusSucceeded,
	}
	for i, status := range statuses {
		record := &models.BuildRecord{
			Theme:      "earthtone",
			Status:     status,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	failed := models.BuildStatusFailed
	records, err := repo.Query(ctx, models.BuildQuery{Status: &failed})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 || records[0].Status != models.BuildStatusFailed {
		t.Fatalf("unexpected query result: %+v", records)
	}

	since := base.Add(30 * time.Minute)
	records, err = repo.Query(ctx, models.BuildQuery{Since: &since})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records since %v, got %d", since, len(records))
	}
	if !records[0].RecordedAt.After(records[1].RecordedAt) {
		t.Fatal("expected newest-first ordering")
	}

	records, err = repo.Query(ctx, models.BuildQuery{Limit: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected limit to apply, got %d records", len(records))
	}
}

func TestBuildRepositoryDeleteOlderThan(t *testing.T) {
	database := openTestDB(t)
	repo := NewBuildRepository(database)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := &models.BuildRecord{
			Theme:      "earthtone",
			Status:     models.BuildStatusSucceeded,
			RecordedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	deleted, err := repo.DeleteOlderThan(ctx, base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	remaining, err := repo.Query(ctx, models.BuildQuery{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining record, got %d", len(remaining))
	}
}
