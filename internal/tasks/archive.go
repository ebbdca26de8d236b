package tasks

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/desertthunder/tlx/internal/formatter"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

// ArchiveFile is one rendered file written to an archive
type ArchiveFile struct {
	Path     string
	Site     string
	Language models.Language
	Kind     models.KeyType
	Keys     int
}

// ArchiveResult summarizes a built archive.
type ArchiveResult struct {
	Files   []ArchiveFile // Files in archive order
	Sites   []string      // Sites that contributed at least one file
	Skipped []string      // Requested sites that were unknown or empty
	Keys    int           // Total entries across all files
}

// BuildArchive writes a zip archive of every requested site's translations to w.
//
// Names are trimmed and blank or repeated names ignored. Unknown sites and sites without translations are
// skipped. Every file is deflated with its modification time set to ts, so the same store contents and
// timestamp always produce the same bytes.
func (e *ExportEngine) BuildArchive(w io.Writer, siteNames []string, ts time.Time) (*ArchiveResult, error) {
	return e.buildArchive(w, siteNames, ts, nil)
}

func (e *ExportEngine) buildArchive(w io.Writer, siteNames []string, ts time.Time, progress chan<- ProgressUpdate) (*ArchiveResult, error) {
	result := &ArchiveResult{Files: []ArchiveFile{}, Sites: []string{}, Skipped: []string{}}
	zw := zip.NewWriter(w)

	seen := map[string]bool{}
	for i, raw := range siteNames {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		e.sendProgress(progress, resolveSiteUpdate(i+1, len(siteNames), name))

		site, err := e.store.SiteByName(name)
		if errors.Is(err, shared.ErrSiteNotFound) {
			e.logger.Debug("skipping unknown site", "site", name)
			result.Skipped = append(result.Skipped, name)
			e.sendProgress(progress, skippedSiteUpdate(i+1, len(siteNames), name, "not found"))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up site %s: %w", name, err)
		}

		records, err := e.store.TranslationsForSite(site.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to list translations for %s: %w", name, err)
		}
		if len(records) == 0 {
			e.logger.Debug("skipping empty site", "site", name)
			result.Skipped = append(result.Skipped, name)
			e.sendProgress(progress, skippedSiteUpdate(i+1, len(siteNames), name, "no translations"))
			continue
		}

		groups, err := Group(records, map[string]string{site.ID(): site.Name()})
		if err != nil {
			return nil, fmt.Errorf("failed to group translations for %s: %w", name, err)
		}

		for _, sg := range groups {
			for _, lg := range sg.Languages {
				for _, fg := range lg.Files {
					file := ArchiveFile{
						Path:     formatter.EntryPath(sg.Site, lg.Language, fg.Kind),
						Site:     sg.Site,
						Language: lg.Language,
						Kind:     fg.Kind,
						Keys:     len(fg.Entries),
					}
					if err := writeEntry(zw, file.Path, formatter.Render(sg.Site, lg.Language, fg.Kind, fg.Entries, ts), ts); err != nil {
						return nil, err
					}
					result.Files = append(result.Files, file)
					result.Keys += file.Keys
					e.sendProgress(progress, renderedFileUpdate(len(result.Files), 0, file))
				}
			}
		}
		result.Sites = append(result.Sites, name)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return result, nil
}

func writeEntry(zw *zip.Writer, name string, content []byte, ts time.Time) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: ts,
	}
	f, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
