// package testing contains shared testing utilities
package testing

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

// FixedTime is the export timestamp used by deterministic archive tests
var FixedTime = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

// MockRecordStore is an in-memory test double for the export record store.
//
// Translations are keyed by site ID and returned in the order they were added.
type MockRecordStore struct {
	Sites        map[string]*models.Site
	Translations map[string][]*models.Translation
	Exports      []*models.ExportRecord

	SiteErr   error
	ListErr   error
	RecordErr error
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{
		Sites:        map[string]*models.Site{},
		Translations: map[string][]*models.Translation{},
	}
}

// AddSite registers a site and returns it with a stable ID derived from its name
func (m *MockRecordStore) AddSite(name string) *models.Site {
	site := models.NewSite(len(m.Sites)+1, name, "")
	site.SetID("site-" + name)
	m.Sites[name] = site
	return site
}

// AddTranslation classifies key and appends the record to the site's list
func (m *MockRecordStore) AddTranslation(site *models.Site, key, value string, lang models.Language) *models.Translation {
	kind, _ := models.ClassifyKey(key)
	tr := models.NewTranslation(len(m.Translations[site.ID()])+1, site.ID(), key, value, lang, kind)
	m.Translations[site.ID()] = append(m.Translations[site.ID()], tr)
	return tr
}

func (m *MockRecordStore) SiteByName(name string) (*models.Site, error) {
	if m.SiteErr != nil {
		return nil, m.SiteErr
	}
	site, ok := m.Sites[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSiteNotFound, name)
	}
	return site, nil
}

func (m *MockRecordStore) TranslationsForSite(siteID string) ([]*models.Translation, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Translations[siteID], nil
}

func (m *MockRecordStore) RecordExport(record *models.ExportRecord) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Exports = append(m.Exports, record)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FCloser simulates a failure when reading a body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// ZipEntry is one file read back from an archive
type ZipEntry struct {
	Name     string
	Content  string
	Modified time.Time
	Method   uint16
}

// MustReadZip opens data as a zip archive and returns its entries in archive order
func MustReadZip(t *testing.T, data []byte) []ZipEntry {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Failed to open zip archive: %v", err)
	}

	entries := make([]ZipEntry, 0, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open zip entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read zip entry %s: %v", f.Name, err)
		}
		entries = append(entries, ZipEntry{
			Name:     f.Name,
			Content:  string(content),
			Modified: f.Modified,
			Method:   f.Method,
		})
	}
	return entries
}

// ZipNames lists entry names in archive order
func ZipNames(entries []ZipEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// MustOpenDB creates an in-memory SQLite database with migrations applied
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
