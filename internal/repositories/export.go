package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

const exportColumns = "id, sequence, archive_id, filename, file_url, storage_key, requested_sites, entry_count, size_bytes, created_at, updated_at"

// ExportRepository implements [models.Repository] for export history.
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new [ExportRepository] with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts a new export record with generated ID and sequence
func (r *ExportRepository) Create(e *models.ExportRecord) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "exports")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	e.SetID(id)
	e.SetSequence(sequence)

	query := `INSERT INTO exports (` + exportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		id,
		sequence,
		e.ArchiveID(),
		e.Filename(),
		e.FileURL(),
		e.StorageKey(),
		e.JoinedSites(),
		e.EntryCount(),
		e.SizeBytes(),
		e.CreatedAt(),
		e.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}

	return nil
}

// Get retrieves an export record by ID
func (r *ExportRepository) Get(id string) (*models.ExportRecord, error) {
	return r.scanOne(r.db.QueryRow(`SELECT `+exportColumns+` FROM exports WHERE id = ?`, id), id)
}

// GetByArchiveID retrieves an export record by the archive identifier returned to callers
func (r *ExportRepository) GetByArchiveID(archiveID string) (*models.ExportRecord, error) {
	return r.scanOne(r.db.QueryRow(`SELECT `+exportColumns+` FROM exports WHERE archive_id = ?`, archiveID), archiveID)
}

// Update refreshes the file URL of an export record, used when the public media prefix changes.
func (r *ExportRepository) Update(e *models.ExportRecord) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	e.SetUpdatedAt(now)

	result, err := r.db.Exec(`UPDATE exports SET file_url = ?, updated_at = ? WHERE id = ?`, e.FileURL(), now, e.ID())
	if err != nil {
		return fmt.Errorf("failed to update export: %w", err)
	}
	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrExportNotFound, e.ID()))
}

// Delete removes an export record by ID. The stored archive is left to the caller.
func (r *ExportRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM exports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrExportNotFound, id))
}

// List retrieves export records, newest first. Supported criteria: "limit" (int).
func (r *ExportRepository) List(criteria map[string]any) ([]*models.ExportRecord, error) {
	query := `SELECT ` + exportColumns + ` FROM exports ORDER BY sequence DESC`
	args := []any{}

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	exports := []*models.ExportRecord{}
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return exports, nil
}

func (r *ExportRepository) scanOne(row *sql.Row, lookup string) (*models.ExportRecord, error) {
	e, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrExportNotFound, lookup)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export: %w", err)
	}
	return e, nil
}

func (r *ExportRepository) scan(row scanner) (*models.ExportRecord, error) {
	var (
		id             string
		sequence       int
		archiveID      string
		filename       string
		fileURL        string
		storageKey     string
		requestedSites string
		entryCount     int
		sizeBytes      int64
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(&id, &sequence, &archiveID, &filename, &fileURL, &storageKey, &requestedSites, &entryCount, &sizeBytes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	e := models.NewExportRecord(sequence, archiveID, filename, fileURL, storageKey, models.SplitSites(requestedSites), entryCount, sizeBytes)
	e.SetID(id)
	e.SetCreatedAt(createdAt)
	e.SetUpdatedAt(updatedAt)
	return e, nil
}
