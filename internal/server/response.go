package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

// maxBodyBytes bounds request bodies read by the API
const maxBodyBytes = 1 << 20

// errorBody is the {"error": "..."} response shape
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// writeServiceError maps store, validation and export errors onto status codes
func writeServiceError(w http.ResponseWriter, logger *log.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, shared.ErrEmptyRequest):
		writeError(w, http.StatusNotFound, "No sites provided")
	case errors.Is(err, shared.ErrSiteNotFound),
		errors.Is(err, shared.ErrTranslationNotFound),
		errors.Is(err, shared.ErrExportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrMissingArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// readFields decodes a JSON object or form body into string fields.
//
// Non-string JSON scalars are formatted with fmt; null becomes "".
func readFields(r *http.Request) (map[string]string, error) {
	fields := map[string]string{}
	if r.Body == nil || r.Body == http.NoBody {
		return fields, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: could not read body: %v", shared.ErrInvalidArgument, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return fields, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: malformed form body: %v", shared.ErrInvalidArgument, err)
		}
		for k := range values {
			fields[k] = values.Get(k)
		}
		return fields, nil
	default:
		raw := map[string]any{}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("%w: JSON parse error - %v", shared.ErrInvalidArgument, err)
		}
		for k, v := range raw {
			switch val := v.(type) {
			case nil:
				fields[k] = ""
			case string:
				fields[k] = val
			default:
				fields[k] = fmt.Sprint(val)
			}
		}
		return fields, nil
	}
}

// siteParam reads the comma-separated site list from the query string, falling back to the body
func siteParam(r *http.Request) (string, error) {
	if raw := r.URL.Query().Get("site"); raw != "" {
		return raw, nil
	}
	fields, err := readFields(r)
	if err != nil {
		return "", err
	}
	return fields["site"], nil
}

type siteJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toSiteJSON(s *models.Site) siteJSON {
	return siteJSON{ID: s.ID(), Name: s.Name(), Description: s.Description()}
}

type translationJSON struct {
	ID       string `json:"id"`
	Site     string `json:"site"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Language string `json:"language"`
	KeyType  string `json:"key_type"`
}

type exportJSON struct {
	ArchiveID string   `json:"archive_id"`
	Filename  string   `json:"filename"`
	FileURL   string   `json:"file_url"`
	Sites     []string `json:"sites"`
	Entries   int      `json:"entries"`
	Size      int64    `json:"size"`
	CreatedAt string   `json:"created_at"`
}

func toExportJSON(e *models.ExportRecord) exportJSON {
	return exportJSON{
		ArchiveID: e.ArchiveID(),
		Filename:  e.Filename(),
		FileURL:   e.FileURL(),
		Sites:     e.RequestedSites(),
		Entries:   e.EntryCount(),
		Size:      e.SizeBytes(),
		CreatedAt: e.CreatedAt().UTC().Format("2006-01-02T15:04:05Z"),
	}
}
