package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/tlx/internal/formatter"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
	"github.com/desertthunder/tlx/internal/storage"
	"github.com/desertthunder/tlx/internal/tasks"
	"github.com/desertthunder/tlx/internal/ui"
	"github.com/urfave/cli/v3"
)

type exportOutput struct {
	ArchiveID string    `json:"archive_id"`
	Filename  string    `json:"filename"`
	FileURL   string    `json:"file_url"`
	Sites     []string  `json:"sites"`
	Entries   int       `json:"entries"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func newExportOutput(e *models.ExportRecord) exportOutput {
	return exportOutput{
		ArchiveID: e.ArchiveID(),
		Filename:  e.Filename(),
		FileURL:   e.FileURL(),
		Sites:     e.RequestedSites(),
		Entries:   e.EntryCount(),
		Size:      e.SizeBytes(),
		CreatedAt: e.CreatedAt(),
	}
}

// ExportRun builds an archive for a comma-separated site list.
//
// With --output the archive is written to a local file and nothing is recorded; otherwise it is stored in the
// bucket and added to the export history.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	sites := cmd.StringArg("sites")
	output := cmd.String("output")

	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	if output != "" {
		return r.exportToFile(sites, output)
	}

	r.logger.Info("starting export", "sites", sites)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolveSites:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.RenderFiles:
				r.writePlain("   %s\n", update.Message)
			case tasks.StoreArchive:
				r.writePlain("\n📦 %s\n", update.Message)
			}
		}
	}()

	manifest, err := r.engine.Export(ctx, progressCh, sites)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(manifest, true)
	}

	r.writePlain("\n")
	r.writePlainHeader(manifest.Message)
	r.writePlain("Archive: %s\n", manifest.ArchiveID)
	r.writePlain("URL: %s\n", manifest.FileURL)
	r.writePlain("Files: %d (%d keys, %d bytes)\n", manifest.Entries, manifest.Keys, manifest.Size)
	if manifest.Entries == 0 {
		r.writePlain("%s\n", ui.Warn("None of the requested sites had translations; the archive is empty."))
	}
	return nil
}

func (r *Runner) exportToFile(sites, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	result, err := r.engine.Stream(f, sites)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	r.logger.Info("archive written", "path", path, "files", len(result.Files))
	for _, file := range result.Files {
		r.writePlain("  %s (%d keys)\n", file.Path, file.Keys)
	}
	for _, name := range result.Skipped {
		r.writePlain("%s\n", ui.Warn("  skipped "+name))
	}
	return r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Wrote %d files to %s", len(result.Files), path)))
}

// ExportInspect lists the files inside an archive and checks each one parses back.
//
// The argument is tried as a local file first, then as a media URL path, an archive ID or a raw storage key.
func (r *Runner) ExportInspect(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("archive")
	if ref == "" {
		return fmt.Errorf("%w: archive path, URL path or id is required", shared.ErrMissingArgument)
	}

	data, err := r.readArchive(ctx, cmd, ref)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %s is not a zip archive: %v", shared.ErrInvalidInput, ref, err)
	}

	showEntries := cmd.Bool("entries")
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSITE\tLOCALE\tKEYS\tEXPORTED")
	for _, zf := range zr.File {
		parsed, err := readArchiveFile(zf)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", zf.Name, parsed.Site, parsed.Locale, parsed.TotalKeys, parsed.ExportDate)
		if showEntries {
			for _, e := range parsed.Entries {
				fmt.Fprintf(tw, "\t%s\t%s\t\t\n", e.Key, formatter.EscapeValue(e.Value))
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(zr.File) == 0 {
		return r.writePlain("%s\n", ui.Warn("archive is empty"))
	}
	return nil
}

func readArchiveFile(zf *zip.File) (*formatter.ParsedFile, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", zf.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", zf.Name, err)
	}

	parsed, err := formatter.ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", zf.Name, err)
	}
	return parsed, nil
}

func (r *Runner) readArchive(ctx context.Context, cmd *cli.Command, ref string) ([]byte, error) {
	if _, err := os.Stat(ref); err == nil {
		return os.ReadFile(ref)
	}

	if err := r.open(ctx, cmd); err != nil {
		return nil, err
	}

	key, ok := r.bucket.KeyFromPath(ref)
	if !ok {
		key = ref
		if !strings.ContainsAny(ref, "/.") {
			key = storage.ArchiveKey(r.config.Export.Directory, ref)
		}
	}

	r.logger.Debug("reading stored archive", "key", key)
	return r.bucket.ReadAll(ctx, key)
}

// ExportHistory prints recent exports, newest first.
func (r *Runner) ExportHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	records, err := r.catalog.ListExports(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]exportOutput, len(records))
		for i, rec := range records {
			out[i] = newExportOutput(rec)
		}
		return r.writeJSON(out, true)
	}

	if len(records) == 0 {
		return r.writePlain("%s\n", ui.Warn("No exports yet"))
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ARCHIVE\tSITES\tFILES\tBYTES\tCREATED\tURL")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			rec.ArchiveID(), rec.JoinedSites(), rec.EntryCount(), rec.SizeBytes(), rec.CreatedAt().Format(time.DateTime), rec.FileURL())
	}
	return tw.Flush()
}

// ExportDelete removes a stored archive and its history entry. A missing object does not block
// removing the history entry.
func (r *Runner) ExportDelete(ctx context.Context, cmd *cli.Command) error {
	archiveID := cmd.StringArg("archive-id")
	if archiveID == "" {
		return fmt.Errorf("%w: archive id is required", shared.ErrMissingArgument)
	}
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	record, err := r.store.Exports.GetByArchiveID(archiveID)
	if err != nil {
		return err
	}

	if err := r.bucket.Delete(ctx, record.StorageKey()); err != nil {
		if !errors.Is(err, shared.ErrExportNotFound) {
			return err
		}
		r.logger.Warn("stored archive already gone", "key", record.StorageKey())
	}

	if err := r.store.Exports.Delete(record.ID()); err != nil {
		return err
	}

	r.logger.Info("export deleted", "archive", archiveID)
	return r.writePlain("%s\n", ui.OK("✓ Deleted export "+archiveID))
}
