package models

import "time"

// BuildStatus is the terminal state of a recorded build.
type BuildStatus string

const (
	BuildStatusSucceeded BuildStatus = "succeeded"
	BuildStatusFailed    BuildStatus = "failed"
)

// BuildRecord is one entry in the build history.
type BuildRecord struct {
	// ID is the unique identifier for the build.
	ID string `json:"id"`

	// Theme is the active theme name at build time.
	Theme string `json:"theme"`

	// PageCount is the number of pages rendered.
	PageCount int `json:"page_count"`

	// FileCount is the number of artifacts written.
	FileCount int `json:"file_count"`

	// TotalBytes is the size of the built tree.
	TotalBytes int64 `json:"total_bytes"`

	// ContentHash identifies the built tree; identical inputs hash
	// identically across builds.
	ContentHash string `json:"content_hash"`

	// Status records whether the build succeeded.
	Status BuildStatus `json:"status"`

	// Error holds the failure message for failed builds.
	Error string `json:"error,omitempty"`

	// RecordedAt is when the build finished.
	RecordedAt time.Time `json:"recorded_at"`

	// DurationMillis is the build wall time.
	DurationMillis int64 `json:"duration_millis"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// BuildQuery defines filters for querying build records.
type BuildQuery struct {
	Theme  *string      // Filter by theme name
	Status *BuildStatus // Filter by status
	Since  *time.Time   // Builds at or after this time (inclusive)
	Until  *time.Time   // Builds before this time (exclusive)
	Limit  int          // Max results to return
}
