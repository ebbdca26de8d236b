// package services defines interface Catalog for managing sites and translations
package services

import (
	"github.com/desertthunder/tlx/internal/models"
)

// Catalog defines the create/list/delete operations on sites and translations.
type Catalog interface {
	// CreateSite validates and stores a new site. Returns a validation error on blank or duplicate names.
	CreateSite(in SiteInput) (*models.Site, error)

	// ListSites returns every site in creation order.
	ListSites() ([]*models.Site, error)

	// DeleteSite removes a site by name together with its translations.
	DeleteSite(name string) error

	// CreateTranslation validates input, derives the key kind and stores the translation.
	CreateTranslation(in TranslationInput) (*TranslationView, error)

	// ListTranslations returns translations matching the filter in creation order.
	ListTranslations(filter TranslationFilter) ([]*TranslationView, error)

	// ListExports returns the most recent exports first, at most limit when limit > 0.
	ListExports(limit int) ([]*models.ExportRecord, error)
}

// SiteInput is the create request for a site
type SiteInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TranslationInput is the create request for a translation.
//
// Site is a site name; a site ID is accepted when no site has that name.
type TranslationInput struct {
	Site     string `json:"site"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Language string `json:"language"`
}

// TranslationFilter narrows ListTranslations. Empty fields match everything.
type TranslationFilter struct {
	Site     string
	Language string
}

// TranslationView is a translation joined with its site name
type TranslationView struct {
	*models.Translation
	SiteName string
}
