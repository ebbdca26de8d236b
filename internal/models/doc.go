// Package models defines domain entities and persistence interfaces for the tlx translation service.
//
// Persistent entities:
//   - [Site] : a namespace owning translation entries, identified by a unique name
//   - [Translation] : one key/value pair scoped to a site and [Language], classified by [KeyType]
//   - [ExportRecord] : history row describing a persisted export archive
//
// Keys are classified exactly once, at the create boundary, by [ClassifyKey]: "//" marks a template
// key ([Template]) and "__" marks an initialization key ([Initialize]). Persistence trusts the stored
// [KeyType] instead of deriving it again.
//
// Field-level failures are reported as [*ValidationError], which wraps shared.ErrInvalidInput.
// All persistent entities implement the [Model] interface; [Repository] defines standard CRUD operations.
package models
