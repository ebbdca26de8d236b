package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tlx/internal/services"
	"github.com/desertthunder/tlx/internal/storage"
)

// SitesHandler serves site listing, creation and deletion.
type SitesHandler struct {
	catalog services.Catalog
	logger  *log.Logger
}

func NewSitesHandler(catalog services.Catalog, logger *log.Logger) *SitesHandler {
	return &SitesHandler{catalog: catalog, logger: logger}
}

func (h *SitesHandler) Routes() []string {
	return []string{"/api/sites/{$}", "/api/sites/{name}"}
}

func (h *SitesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if name := r.PathValue("name"); name != "" {
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, http.MethodDelete)
			return
		}
		h.delete(w, name)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.list(w)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *SitesHandler) list(w http.ResponseWriter) {
	sites, err := h.catalog.ListSites()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := make([]siteJSON, len(sites))
	for i, s := range sites {
		out[i] = toSiteJSON(s)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SitesHandler) create(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	site, err := h.catalog.CreateSite(services.SiteInput{Name: fields["name"], Description: fields["description"]})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSiteJSON(site))
}

func (h *SitesHandler) delete(w http.ResponseWriter, name string) {
	if err := h.catalog.DeleteSite(name); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TranslationsHandler serves translation creation and archive exports.
type TranslationsHandler struct {
	catalog  services.Catalog
	exporter Exporter
	logger   *log.Logger
}

func NewTranslationsHandler(catalog services.Catalog, exporter Exporter, logger *log.Logger) *TranslationsHandler {
	return &TranslationsHandler{catalog: catalog, exporter: exporter, logger: logger}
}

func (h *TranslationsHandler) Routes() []string {
	return []string{"/api/translations/{$}", "/api/translations/export.zip"}
}

func (h *TranslationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/export.zip") {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.stream(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.export(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *TranslationsHandler) create(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	view, err := h.catalog.CreateTranslation(services.TranslationInput{
		Site:     fields["site"],
		Key:      fields["key"],
		Value:    fields["value"],
		Language: fields["language"],
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, translationJSON{
		ID:       view.ID(),
		Site:     view.SiteName,
		Key:      view.Key(),
		Value:    view.Value(),
		Language: string(view.Language()),
		KeyType:  string(view.KeyType()),
	})
}

func (h *TranslationsHandler) export(w http.ResponseWriter, r *http.Request) {
	raw, err := siteParam(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	manifest, err := h.exporter.Export(r.Context(), nil, raw)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

func (h *TranslationsHandler) stream(w http.ResponseWriter, r *http.Request) {
	raw, err := siteParam(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if _, err := h.exporter.Stream(&buf, raw); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", storage.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.exporter.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// ExportsHandler serves the export history.
type ExportsHandler struct {
	catalog services.Catalog
	logger  *log.Logger
}

func NewExportsHandler(catalog services.Catalog, logger *log.Logger) *ExportsHandler {
	return &ExportsHandler{catalog: catalog, logger: logger}
}

func (h *ExportsHandler) Routes() []string {
	return []string{"/api/exports/{$}"}
}

func (h *ExportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.catalog.ListExports(limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := make([]exportJSON, len(records))
	for i, rec := range records {
		out[i] = toExportJSON(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// MediaHandler downloads stored archives by URL path.
type MediaHandler struct {
	archives ArchiveReader
	prefix   string
	filename string
	logger   *log.Logger
}

func NewMediaHandler(archives ArchiveReader, prefix, filename string, logger *log.Logger) *MediaHandler {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &MediaHandler{archives: archives, prefix: prefix, filename: filename, logger: logger}
}

func (h *MediaHandler) Routes() []string {
	return []string{h.prefix}
}

func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	key, ok := h.archives.KeyFromPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	obj, err := h.archives.Open(r.Context(), key)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	defer obj.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = storage.ContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.filename+`"`)
	if !obj.ModTime.IsZero() {
		w.Header().Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, obj); err != nil {
		h.logger.Warn("archive download interrupted", "key", key, "error", err)
	}
}
