// Package events provides helper functions for recording sitegen history events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/resumedj/sitegen/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Append(ctx context.Context, event *models.Event) error
}

// LogBuildCompleted records a successful build.
func LogBuildCompleted(ctx context.Context, repo Repository, buildID, theme string, pageCount, fileCount int, totalBytes int64, contentHash string, duration time.Duration) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if buildID == "" {
		return fmt.Errorf("build id is required")
	}

	payload, err := json.Marshal(models.BuildCompletedPayload{
		Theme:       theme,
		PageCount:   pageCount,
		FileCount:   fileCount,
		TotalBytes:  totalBytes,
		ContentHash: contentHash,
		Duration:    duration.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal build payload: %w", err)
	}

	return repo.Append(ctx, &models.Event{
		Type:       models.EventTypeBuildCompleted,
		EntityType: models.EntityTypeBuild,
		EntityID:   buildID,
		Payload:    payload,
	})
}

// LogBuildFailed records a failed build.
func LogBuildFailed(ctx context.Context, repo Repository, buildID, theme string, buildErr error) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if buildID == "" {
		return fmt.Errorf("build id is required")
	}

	message := ""
	if buildErr != nil {
		message = buildErr.Error()
	}

	payload, err := json.Marshal(models.BuildFailedPayload{
		Theme: theme,
		Error: message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal failure payload: %w", err)
	}

	return repo.Append(ctx, &models.Event{
		Type:       models.EventTypeBuildFailed,
		EntityType: models.EntityTypeBuild,
		EntityID:   buildID,
		Payload:    payload,
	})
}

// LogDeployCompleted records a successful deployment.
func LogDeployCompleted(ctx context.Context, repo Repository, buildID, target, contentHash string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if buildID == "" {
		return fmt.Errorf("build id is required")
	}

	payload, err := json.Marshal(models.DeployCompletedPayload{
		Target:      target,
		ContentHash: contentHash,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal deploy payload: %w", err)
	}

	return repo.Append(ctx, &models.Event{
		Type:       models.EventTypeDeployCompleted,
		EntityType: models.EntityTypeBuild,
		EntityID:   buildID,
		Payload:    payload,
	})
}

// LogDeployFailed records a failed deployment.
func LogDeployFailed(ctx context.Context, repo Repository, buildID, target string, deployErr error) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if buildID == "" {
		return fmt.Errorf("build id is required")
	}

	message := ""
	if deployErr != nil {
		message = deployErr.Error()
	}

	payload, err := json.Marshal(models.DeployFailedPayload{
		Target: target,
		Error:  message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal deploy failure payload: %w", err)
	}

	return repo.Append(ctx, &models.Event{
		Type:       models.EventTypeDeployFailed,
		EntityType: models.EntityTypeBuild,
		EntityID:   buildID,
		Payload:    payload,
	})
}

// LogThemeReplaced records a theme swap.
func LogThemeReplaced(ctx context.Context, repo Repository, oldTheme, newTheme string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if newTheme == "" {
		return fmt.Errorf("new theme name is required")
	}

	payload, err := json.Marshal(models.ThemeReplacedPayload{
		OldTheme: oldTheme,
		NewTheme: newTheme,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal theme payload: %w", err)
	}

	return repo.Append(ctx, &models.Event{
		Type:       models.EventTypeThemeReplaced,
		EntityType: models.EntityTypeTheme,
		EntityID:   newTheme,
		Payload:    payload,
	})
}
