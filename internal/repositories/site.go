package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

const duplicateSiteMessage = "site with this name already exists."

// SiteRepository implements [models.Repository] for [models.Site] persistence.
type SiteRepository struct {
	db *sql.DB
}

// NewSiteRepository creates a new [SiteRepository] with the given database connection
func NewSiteRepository(db *sql.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Create validates and inserts a new site with generated ID and sequence.
//
// A taken name is reported as a [models.ValidationError] on "name".
func (r *SiteRepository) Create(site *models.Site) error {
	if err := site.Validate(); err != nil {
		return err
	}

	exists, err := r.Exists(site.Name())
	if err != nil {
		return err
	}
	if exists {
		return models.NewValidationError("name", duplicateSiteMessage)
	}

	sequence, err := NextSequence(r.db, "sites")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	site.SetID(id)
	site.SetSequence(sequence)

	query := `
		INSERT INTO sites (id, sequence, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, site.Name(), site.Description(), site.CreatedAt(), site.UpdatedAt())
	if isUniqueViolation(err) {
		return models.NewValidationError("name", duplicateSiteMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to insert site: %w", err)
	}

	return nil
}

// Exists reports whether a site with the given name exists.
func (r *SiteRepository) Exists(name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM sites WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check site name: %w", err)
	}
	return exists, nil
}

// Get retrieves a site by ID
func (r *SiteRepository) Get(id string) (*models.Site, error) {
	query := `
		SELECT id, sequence, name, description, created_at, updated_at
		FROM sites
		WHERE id = ?
	`
	return r.scan(r.db.QueryRow(query, id), id)
}

// GetByName retrieves a site by its unique name. Missing sites yield [shared.ErrSiteNotFound].
func (r *SiteRepository) GetByName(name string) (*models.Site, error) {
	query := `
		SELECT id, sequence, name, description, created_at, updated_at
		FROM sites
		WHERE name = ?
	`
	return r.scan(r.db.QueryRow(query, name), name)
}

// Update modifies the description of an existing site. Names are immutable.
func (r *SiteRepository) Update(site *models.Site) error {
	if err := site.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	site.SetUpdatedAt(now)

	result, err := r.db.Exec(`UPDATE sites SET description = ?, updated_at = ? WHERE id = ?`, site.Description(), now, site.ID())
	if err != nil {
		return fmt.Errorf("failed to update site: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrSiteNotFound, site.ID()))
}

// Delete removes a site by ID; its translations are removed by the ON DELETE CASCADE foreign key.
func (r *SiteRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrSiteNotFound, id))
}

// DeleteByName removes the site with the given name.
func (r *SiteRepository) DeleteByName(name string) error {
	site, err := r.GetByName(name)
	if err != nil {
		return err
	}
	return r.Delete(site.ID())
}

// List retrieves all sites in creation order. Supported criteria: "name" (exact match).
func (r *SiteRepository) List(criteria map[string]any) ([]*models.Site, error) {
	query := `
		SELECT id, sequence, name, description, created_at, updated_at
		FROM sites
		WHERE 1 = 1
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	sites := []*models.Site{}
	for rows.Next() {
		site, err := r.scan(rows, "")
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sites, nil
}

// scan reads one site row. lookup names the missing key in not-found errors.
func (r *SiteRepository) scan(row scanner, lookup string) (*models.Site, error) {
	var (
		id          string
		sequence    int
		name        string
		description string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&id, &sequence, &name, &description, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSiteNotFound, lookup)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan site: %w", err)
	}

	site := models.NewSite(sequence, name, description)
	site.SetID(id)
	site.SetCreatedAt(createdAt)
	site.SetUpdatedAt(updatedAt)

	return site, nil
}
