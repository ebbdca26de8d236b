// package tasks implements translation export operations.
//
// The core abstraction is ExportEngine, which groups stored translations, renders them and packages the files
// as a zip archive. Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
	"github.com/desertthunder/tlx/internal/storage"
)

// ExportMessage is the manifest message of a successful export
const ExportMessage = "Translation files generated successfully"

// RecordStore is the read side of the record store used by exports, plus export history.
type RecordStore interface {
	SiteByName(name string) (*models.Site, error)
	TranslationsForSite(siteID string) ([]*models.Translation, error)
	RecordExport(record *models.ExportRecord) error
}

// ArchiveStore persists finished archives.
type ArchiveStore interface {
	Put(ctx context.Context, key string, data []byte) error
	URL(key string) string
}

// ExportOpts contains configuration for exports.
type ExportOpts struct {
	Filename  string           // Display filename returned in manifests (default: sites.zip)
	Directory string           // Storage key prefix (default: translation_exports)
	Clock     func() time.Time // Export timestamp source (default: time.Now)
}

// Manifest describes a persisted export.
type Manifest struct {
	Message    string `json:"message"`
	FileURL    string `json:"file_url"`
	Filename   string `json:"filename"`
	ArchiveID  string `json:"archive_id"`
	StorageKey string `json:"-"`
	Entries    int    `json:"entries"`
	Keys       int    `json:"keys"`
	Size       int64  `json:"size"`
}

// ExportEngine builds translation archives from a [RecordStore].
type ExportEngine struct {
	store    RecordStore
	archives ArchiveStore
	opts     ExportOpts
	logger   *log.Logger
}

// NewExportEngine creates an ExportEngine. archives may be nil when only [ExportEngine.BuildArchive] and
// [ExportEngine.Stream] are used.
func NewExportEngine(store RecordStore, archives ArchiveStore, opts ExportOpts, logger *log.Logger) *ExportEngine {
	if opts.Filename == "" {
		opts.Filename = "sites.zip"
	}
	if opts.Directory == "" {
		opts.Directory = "translation_exports"
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExportEngine{store: store, archives: archives, opts: opts, logger: logger}
}

// Filename returns the display filename of generated archives
func (e *ExportEngine) Filename() string {
	return e.opts.Filename
}

// ParseSiteList splits a comma-separated list, trimming names and dropping blanks.
//
// Returns [shared.ErrEmptyRequest] when nothing is left.
func ParseSiteList(raw string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, shared.ErrEmptyRequest
	}
	return names, nil
}

// Export builds an archive for rawSites, stores it under a unique key and records it in the export history.
func (e *ExportEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, rawSites string) (*Manifest, error) {
	names, err := ParseSiteList(rawSites)
	if err != nil {
		return nil, err
	}
	if e.archives == nil {
		return nil, fmt.Errorf("%w: no archive store configured", shared.ErrStorageUnavailable)
	}

	var buf bytes.Buffer
	result, err := e.buildArchive(&buf, names, e.opts.Clock(), progress)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archiveID := shared.NewArchiveID()
	key := storage.ArchiveKey(e.opts.Directory, archiveID)

	e.sendProgress(progress, storeArchiveUpdate(key, buf.Len()))
	if err := e.archives.Put(ctx, key, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to store archive: %w", err)
	}

	manifest := &Manifest{
		Message:    ExportMessage,
		FileURL:    e.archives.URL(key),
		Filename:   e.opts.Filename,
		ArchiveID:  archiveID,
		StorageKey: key,
		Entries:    len(result.Files),
		Keys:       result.Keys,
		Size:       int64(buf.Len()),
	}

	record := models.NewExportRecord(0, archiveID, manifest.Filename, manifest.FileURL, key, names, manifest.Entries, manifest.Size)
	if err := e.store.RecordExport(record); err != nil {
		return nil, fmt.Errorf("archive stored at %s but history was not recorded: %w", key, err)
	}

	e.logger.Info("export stored", "archive", archiveID, "sites", len(names), "files", manifest.Entries, "bytes", manifest.Size)
	e.sendProgress(progress, completedUpdate(manifest))
	return manifest, nil
}

// Stream writes the archive for rawSites to w without persisting it.
func (e *ExportEngine) Stream(w io.Writer, rawSites string) (*ArchiveResult, error) {
	names, err := ParseSiteList(rawSites)
	if err != nil {
		return nil, err
	}
	return e.buildArchive(w, names, e.opts.Clock(), nil)
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
