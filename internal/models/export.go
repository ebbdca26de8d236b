package models

import (
	"strings"
)

// ExportRecord describes one persisted export archive.
type ExportRecord struct {
	record
	archiveID      string
	filename       string
	fileURL        string
	storageKey     string
	requestedSites []string
	entryCount     int
	sizeBytes      int64
}

// NewExportRecord creates an ExportRecord for an archive stored under storageKey.
func NewExportRecord(sequence int, archiveID, filename, fileURL, storageKey string, requestedSites []string, entryCount int, sizeBytes int64) *ExportRecord {
	return &ExportRecord{
		record:         newRecord(sequence),
		archiveID:      archiveID,
		filename:       filename,
		fileURL:        fileURL,
		storageKey:     storageKey,
		requestedSites: requestedSites,
		entryCount:     entryCount,
		sizeBytes:      sizeBytes,
	}
}

func (e *ExportRecord) ArchiveID() string        { return e.archiveID }
func (e *ExportRecord) Filename() string         { return e.filename }
func (e *ExportRecord) FileURL() string          { return e.fileURL }
func (e *ExportRecord) StorageKey() string       { return e.storageKey }
func (e *ExportRecord) RequestedSites() []string { return e.requestedSites }
func (e *ExportRecord) EntryCount() int          { return e.entryCount }
func (e *ExportRecord) SizeBytes() int64         { return e.sizeBytes }

// JoinedSites returns the requested site names as stored, comma separated.
func (e *ExportRecord) JoinedSites() string {
	return strings.Join(e.requestedSites, ",")
}

// SplitSites is the inverse of [ExportRecord.JoinedSites].
func SplitSites(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

func (e *ExportRecord) Validate() error {
	v := &ValidationError{}
	if e.archiveID == "" {
		v.Add("archive_id", "This field is required.")
	}
	if e.storageKey == "" {
		v.Add("storage_key", "This field is required.")
	}
	if e.entryCount < 0 {
		v.Add("entry_count", "Must not be negative.")
	}
	return v.OrNil()
}
