package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

const (
	duplicateTranslationMessage = "The fields site, key, language must make a unique set."
	translationColumns          = "id, sequence, site_id, key, value, language, key_type, created_at, updated_at"
)

// TranslationRepository implements [models.Repository] for [models.Translation] persistence.
//
// The key type is stored as provided by the caller; it is never derived again here.
type TranslationRepository struct {
	db *sql.DB
}

// NewTranslationRepository creates a new [TranslationRepository] with the given database connection
func NewTranslationRepository(db *sql.DB) *TranslationRepository {
	return &TranslationRepository{db: db}
}

// Create inserts a new translation with generated ID and sequence.
//
// Duplicate (site, key, language) triples are reported as a [models.ValidationError] on "non_field_errors".
func (r *TranslationRepository) Create(t *models.Translation) error {
	if err := t.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "translations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	t.SetID(id)
	t.SetSequence(sequence)

	query := `
		INSERT INTO translations (` + translationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		t.SiteID(),
		t.Key(),
		t.Value(),
		string(t.Language()),
		string(t.KeyType()),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	switch {
	case isUniqueViolation(err):
		return models.NewValidationError("non_field_errors", duplicateTranslationMessage)
	case err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint"):
		return models.NewValidationError("site", "Object does not exist.")
	case err != nil:
		return fmt.Errorf("failed to insert translation: %w", err)
	}

	return nil
}

// Get retrieves a translation by ID
func (r *TranslationRepository) Get(id string) (*models.Translation, error) {
	query := `SELECT ` + translationColumns + ` FROM translations WHERE id = ?`

	t, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTranslationNotFound, id)
	}
	return t, err
}

// Update modifies the value of an existing translation. Key, language and site are immutable.
func (r *TranslationRepository) Update(t *models.Translation) error {
	if err := t.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	t.SetUpdatedAt(now)

	result, err := r.db.Exec(`UPDATE translations SET value = ?, updated_at = ? WHERE id = ?`, t.Value(), now, t.ID())
	if err != nil {
		return fmt.Errorf("failed to update translation: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrTranslationNotFound, t.ID()))
}

// Delete removes a translation by ID
func (r *TranslationRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM translations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete translation: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrTranslationNotFound, id))
}

// List retrieves translations in insertion order.
//
// Supported criteria: "site_id", "language" and "key_type" (all exact matches).
func (r *TranslationRepository) List(criteria map[string]any) ([]*models.Translation, error) {
	query := `SELECT ` + translationColumns + ` FROM translations WHERE 1 = 1`
	args := []any{}

	if siteID, ok := criteria["site_id"].(string); ok && siteID != "" {
		query += " AND site_id = ?"
		args = append(args, siteID)
	}

	if language, ok := criteria["language"].(models.Language); ok && language != "" {
		query += " AND language = ?"
		args = append(args, string(language))
	}

	if keyType, ok := criteria["key_type"].(models.KeyType); ok && keyType != "" {
		query += " AND key_type = ?"
		args = append(args, string(keyType))
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	translations := []*models.Translation{}
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		translations = append(translations, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return translations, nil
}

// ListBySite returns every translation owned by siteID in insertion order.
func (r *TranslationRepository) ListBySite(siteID string) ([]*models.Translation, error) {
	return r.List(map[string]any{"site_id": siteID})
}

// CountBySite returns how many translations siteID owns.
func (r *TranslationRepository) CountBySite(siteID string) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM translations WHERE site_id = ?`, siteID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count translations: %w", err)
	}
	return count, nil
}

// scan reads one translation row. [sql.ErrNoRows] is returned unwrapped for the caller to translate.
func (r *TranslationRepository) scan(row scanner) (*models.Translation, error) {
	var (
		id        string
		sequence  int
		siteID    string
		key       string
		value     string
		language  string
		keyType   string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &sequence, &siteID, &key, &value, &language, &keyType, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan translation: %w", err)
	}

	t := models.NewTranslation(sequence, siteID, key, value, models.Language(language), models.KeyType(keyType))
	t.SetID(id)
	t.SetCreatedAt(createdAt)
	t.SetUpdatedAt(updatedAt)

	return t, nil
}
