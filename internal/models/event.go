// Package models defines the persistent record types for sitegen.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventType categorizes events in the build history log.
type EventType string

const (
	// Build events
	EventTypeBuildCompleted EventType = "build.completed"
	EventTypeBuildFailed    EventType = "build.failed"

	// Deploy events
	EventTypeDeployCompleted EventType = "deploy.completed"
	EventTypeDeployFailed    EventType = "deploy.failed"

	// Theme events
	EventTypeThemeReplaced EventType = "theme.replaced"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeBuild EntityType = "build"
	EntityTypeSite  EntityType = "site"
	EntityTypeTheme EntityType = "theme"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	if strings.TrimSpace(string(e.Type)) == "" {
		return fmt.Errorf("event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		return fmt.Errorf("event entity type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		return fmt.Errorf("event entity id is required")
	}
	return nil
}

// BuildCompletedPayload is the payload for build.completed events.
type BuildCompletedPayload struct {
	Theme       string `json:"theme"`
	PageCount   int    `json:"page_count"`
	FileCount   int    `json:"file_count"`
	TotalBytes  int64  `json:"total_bytes"`
	ContentHash string `json:"content_hash"`
	Duration    string `json:"duration"`
}

// BuildFailedPayload is the payload for build.failed events.
type BuildFailedPayload struct {
	Theme string `json:"theme"`
	Error string `json:"error"`
}

// DeployCompletedPayload is the payload for deploy.completed events.
type DeployCompletedPayload struct {
	Target      string `json:"target"`
	ContentHash string `json:"content_hash"`
}

// DeployFailedPayload is the payload for deploy.failed events.
type DeployFailedPayload struct {
	Target string `json:"target"`
	Error  string `json:"error"`
}

// ThemeReplacedPayload is the payload for theme.replaced events.
type ThemeReplacedPayload struct {
	OldTheme string `json:"old_theme"`
	NewTheme string `json:"new_theme"`
}
