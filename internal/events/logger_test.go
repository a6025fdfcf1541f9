package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/resumedj/sitegen/internal/models"
)

type fakeRepo struct {
	last *models.Event
}

func (r *fakeRepo) Append(ctx context.Context, event *models.Event) error {
	r.last = event
	return nil
}

func TestLogBuildCompleted(t *testing.T) {
	repo := &fakeRepo{}

	err := LogBuildCompleted(context.Background(), repo, "build-1", "earthtone", 4, 8, 40960, "a1b2c3", 150*time.Millisecond)
	if err != nil {
		t.Fatalf("LogBuildCompleted failed: %v", err)
	}

	if repo.last == nil {
		t.Fatal("expected event to be recorded")
	}
	if repo.last.Type != models.EventTypeBuildCompleted {
		t.Fatalf("unexpected event type: %q", repo.last.Type)
	}
	if repo.last.EntityID != "build-1" {
		t.Fatalf("unexpected entity id: %q", repo.last.EntityID)
	}

	var payload models.BuildCompletedPayload
	if err := json.Unmarshal(repo.last.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Theme != "earthtone" || payload.PageCount != 4 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLogBuildCompletedRequiresID(t *testing.T) {
	if err := LogBuildCompleted(context.Background(), &fakeRepo{}, "", "earthtone", 0, 0, 0, "", 0); err == nil {
		t.Fatal("expected error for missing build id")
	}
}

func TestLogBuildFailed(t *testing.T) {
	repo := &fakeRepo{}

	err := LogBuildFailed(context.Background(), repo, "build-2", "bluesteel", errors.New("unresolved token"))
	if err != nil {
		t.Fatalf("LogBuildFailed failed: %v", err)
	}

	var payload models.BuildFailedPayload
	if err := json.Unmarshal(repo.last.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Error != "unresolved token" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLogDeployCompleted(t *testing.T) {
	repo := &fakeRepo{}

	err := LogDeployCompleted(context.Background(), repo, "build-1", "/srv/www/resumedj", "a1b2c3")
	if err != nil {
		t.Fatalf("LogDeployCompleted failed: %v", err)
	}
	if repo.last.Type != models.EventTypeDeployCompleted {
		t.Fatalf("unexpected event type: %q", repo.last.Type)
	}
}

func TestLogThemeReplaced(t *testing.T) {
	repo := &fakeRepo{}

	if err := LogThemeReplaced(context.Background(), repo, "bluesteel", "earthtone"); err != nil {
		t.Fatalf("LogThemeReplaced failed: %v", err)
	}

	if repo.last.EntityType != models.EntityTypeTheme {
		t.Fatalf("unexpected entity type: %q", repo.last.EntityType)
	}

	var payload models.ThemeReplacedPayload
	if err := json.Unmarshal(repo.last.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.OldTheme != "bluesteel" || payload.NewTheme != "earthtone" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLogThemeReplacedRequiresRepo(t *testing.T) {
	if err := LogThemeReplaced(context.Background(), nil, "a", "b"); err == nil {
		t.Fatal("expected error for nil repository")
	}
}
