package repositories

import (
	"database/sql"

	"github.com/desertthunder/tlx/internal/models"
)

// Store bundles the repositories backed by one database and exposes the read-only
// lookups the export engine needs.
type Store struct {
	Sites        *SiteRepository
	Translations *TranslationRepository
	Exports      *ExportRepository
}

// NewStore creates a [Store] over db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Sites:        NewSiteRepository(db),
		Translations: NewTranslationRepository(db),
		Exports:      NewExportRepository(db),
	}
}

// SiteByName returns the named site or an error wrapping shared.ErrSiteNotFound.
func (s *Store) SiteByName(name string) (*models.Site, error) {
	return s.Sites.GetByName(name)
}

// TranslationsForSite returns the site's translations in insertion order.
func (s *Store) TranslationsForSite(siteID string) ([]*models.Translation, error) {
	return s.Translations.ListBySite(siteID)
}

// RecordExport persists an export history row.
func (s *Store) RecordExport(record *models.ExportRecord) error {
	return s.Exports.Create(record)
}
