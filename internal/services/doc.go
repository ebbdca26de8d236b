// Package services validates and applies catalog operations on sites and translations.
//
// # Catalog Interface
//
// [Catalog] is the boundary used by the HTTP API, the CLI and the TUI. Input arrives as plain strings
// ([SiteInput], [TranslationInput]) and is validated here before anything reaches the record store.
//
// # Key Classification
//
// [CatalogService.CreateTranslation] classifies the key exactly once with [models.ClassifyKey] and stores
// the result. A key without a recognized prefix is rejected before the site lookup result matters, and the
// caller never supplies the kind.
//
// # Error Handling
//
// Field problems are reported together as a [*models.ValidationError] (wrapping [shared.ErrInvalidInput]);
// lookups use the store's not-found sentinels:
//   - [shared.ErrSiteNotFound] : DeleteSite with an unknown name
//   - [shared.ErrInvalidInput] : any field error on create
package services
