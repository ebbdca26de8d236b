// Package tasks turns stored translations into per-site export archives with progress reporting.
//
// # Core Operations
//
//  1. [Group] : nests flat translation records as site -> language -> file kind -> entries
//     - Sites and languages keep first-seen order, file kinds are always Template then Initialize
//     - A repeated key keeps its first position and takes the last value
//     - Records with an unknown stored kind are classified again from the key prefix
//
//  2. [ExportEngine.BuildArchive] : writes a zip archive for a list of site names
//     - Unknown and empty sites are skipped without error
//     - Each file is stored at "<site>/<locale><ext>" with a fixed modification time
//
//  3. [ExportEngine.Export] : parses a comma-separated site list, builds the archive, stores it
//     under a unique key and records the export history row
//
//  4. [ExportEngine.Stream] : builds the archive straight into a writer without persisting it
//
// # Progress Reporting
//
// Operations that accept a progress channel send [ProgressUpdate] values with select/default so a slow
// or missing reader never blocks an export.
//
// # Implementation
//
// [ExportEngine] depends on:
//   - [RecordStore] : site lookups, translation listing and history (repositories.Store)
//   - [ArchiveStore] : archive persistence and URLs (storage.Bucket)
package tasks
