// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for stable insertion ordering.
// Deletes are hard deletes; removing a site cascades to its translations through the foreign key.
//
// Key Implementations:
//   - [SiteRepository] : site persistence with name-based lookups and duplicate-name validation
//   - [TranslationRepository] : translation persistence ordered by insertion sequence
//   - [ExportRepository] : export history with archive-id lookups
//   - [Store] : read-only view combining sites and translations for the export engine
//
// Sequence numbers preserve the order records were written, which is the order translations are exported in.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
