package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resumedj/sitegen/internal/models"
)

// Build repository errors.
var (
	ErrBuildNotFound = errors.New("build record not found")
	ErrInvalidBuild  = errors.New("invalid build record")
)

// BuildRepository handles build record persistence.
type BuildRepository struct {
	db *DB
}

// NewBuildRepository creates a new BuildRepository.
func NewBuildRepository(db *DB) *BuildRepository {
	return &BuildRepository{db: db}
}

// Create inserts a new build record.
func (r *BuildRepository) Create(ctx context.Context, record *models.BuildRecord) error {
	if record.Theme == "" || record.Status == "" {
		return ErrInvalidBuild
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	var metadataJSON *string
	if record.Metadata != nil {
		data, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		s := string(data)
		metadataJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO builds (
			id, theme, page_count, file_count, total_bytes, content_hash,
			status, error, recorded_at, duration_millis, metadata_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.Theme,
		record.PageCount,
		record.FileCount,
		record.TotalBytes,
		nullString(record.ContentHash),
		string(record.Status),
		nullString(record.Error),
		record.RecordedAt.UTC().Format(time.RFC3339),
		record.DurationMillis,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert build record: %w", err)
	}

	return nil
}

// Get retrieves a build record by ID.
func (r *BuildRepository) Get(ctx context.Context, id string) (*models.BuildRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, theme, page_count, file_count, total_bytes, content_hash,
			status, error, recorded_at, duration_millis, metadata_json
		FROM builds WHERE id = ?
	`, id)

	return r.scanBuildRecord(row)
}

// Latest returns the most recent build record, or ErrBuildNotFound when the
// history is empty.
func (r *BuildRepository) Latest(ctx context.Context) (*models.BuildRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, theme, page_count, file_count, total_bytes, content_hash,
			status, error, recorded_at, duration_millis, metadata_json
		FROM builds ORDER BY recorded_at DESC, id DESC LIMIT 1
	`)

	return r.scanBuildRecord(row)
}

// Query retrieves build records matching the given filters, newest first.
func (r *BuildRepository) Query(ctx context.Context, q models.BuildQuery) ([]*models.BuildRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, theme, page_count, file_count, total_bytes, content_hash,
		status, error, recorded_at, duration_millis, metadata_json
		FROM builds WHERE 1=1`
	args := []any{}

	if q.Theme != nil {
		query += ` AND theme = ?`
		args = append(args, *q.Theme)
	}
	if q.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*q.Status))
	}
	if q.Since != nil {
		query += ` AND recorded_at >= ?`
		args = append(args, q.Since.UTC().Format(time.RFC3339))
	}
	if q.Until != nil {
		query += ` AND recorded_at < ?`
		args = append(args, q.Until.UTC().Format(time.RFC3339))
	}

	query += ` ORDER BY recorded_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query build records: %w", err)
	}
	defer rows.Close()

	var records []*models.BuildRecord
	for rows.Next() {
		record, err := r.scanBuildRecordFromRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating build records: %w", err)
	}

	return records, nil
}

// DeleteOlderThan removes build records older than the given time.
func (r *BuildRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM builds WHERE recorded_at < ?
	`, before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old build records: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	return count, nil
}

func (r *BuildRepository) scanBuildRecord(row *sql.Row) (*models.BuildRecord, error) {
	var record models.BuildRecord
	var contentHash, buildError, metadataJSON sql.NullString
	var status, recordedAt string

	err := row.Scan(
		&record.ID,
		&record.Theme,
		&record.PageCount,
		&record.FileCount,
		&record.TotalBytes,
		&contentHash,
		&status,
		&buildError,
		&recordedAt,
		&record.DurationMillis,
		&metadataJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildNotFound
		}
		return nil, fmt.Errorf("failed to scan build record: %w", err)
	}

	r.fillBuildRecord(&record, status, recordedAt, contentHash, buildError, metadataJSON)
	return &record, nil
}

func (r *BuildRepository) scanBuildRecordFromRows(rows *sql.Rows) (*models.BuildRecord, error) {
	var record models.BuildRecord
	var contentHash, buildError, metadataJSON sql.NullString
	var status, recordedAt string

	if err := rows.Scan(
		&record.ID,
		&record.Theme,
		&record.PageCount,
		&record.FileCount,
		&record.TotalBytes,
		&contentHash,
		&status,
		&buildError,
		&recordedAt,
		&record.DurationMillis,
		&metadataJSON,
	); err != nil {
		return nil, fmt.Errorf("failed to scan build record: %w", err)
	}

	r.fillBuildRecord(&record, status, recordedAt, contentHash, buildError, metadataJSON)
	return &record, nil
}

func (r *BuildRepository) fillBuildRecord(record *models.BuildRecord, status, recordedAt string, contentHash, buildError, metadataJSON sql.NullString) {
	record.Status = models.BuildStatus(status)
	if contentHash.Valid {
		record.ContentHash = contentHash.String
	}
	if buildError.Valid {
		record.Error = buildError.String
	}
	if t, err := time.Parse(time.RFC3339, recordedAt); err == nil {
		record.RecordedAt = t
	}
	if metadataJSON.Valid {
		if err := json.Unmarshal([]byte(metadataJSON.String), &record.Metadata); err != nil {
			r.db.logger.Warn().Err(err).Str("build_id", record.ID).Msg("failed to parse build metadata")
		}
	}
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
