// package server contains middleware & handlers for the translation export web service
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tlx/internal/services"
	"github.com/desertthunder/tlx/internal/storage"
	"github.com/desertthunder/tlx/internal/tasks"
	"golang.org/x/time/rate"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, recovery and rate limiting.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the translation service.
// Implementations handle specific resources (sites, translations, exports, media).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Exporter builds translation archives for the export routes.
type Exporter interface {
	Export(ctx context.Context, progress chan<- tasks.ProgressUpdate, rawSites string) (*tasks.Manifest, error)
	Stream(w io.Writer, rawSites string) (*tasks.ArchiveResult, error)
	Filename() string
}

// ArchiveReader serves stored archives for the media route.
type ArchiveReader interface {
	Open(ctx context.Context, key string) (*storage.Object, error)
	KeyFromPath(p string) (string, bool)
}

// Deps holds everything [NewRouter] wires into handlers.
type Deps struct {
	Catalog   services.Catalog
	Exporter  Exporter
	Archives  ArchiveReader
	Health    http.Handler // defaults to a handler that always reports ok
	Logger    *log.Logger
	MediaPath string  // URL path prefix of stored archives (default: /media/)
	RateLimit float64 // requests per second; <= 0 disables limiting
	Burst     int
}

// NewRouter builds the API router with logging, recovery and rate limiting middleware.
func NewRouter(d Deps) *BasicRouter {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.MediaPath == "" {
		d.MediaPath = "/media/"
	}
	if d.Health == nil {
		d.Health = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "ok")
		})
	}

	r := NewBasicRouter()
	r.Use(RequestLogger(d.Logger), Recoverer(d.Logger))
	if d.RateLimit > 0 {
		burst := d.Burst
		if burst <= 0 {
			burst = 1
		}
		r.Use(RateLimiter(rate.NewLimiter(rate.Limit(d.RateLimit), burst)))
	}

	r.Handler(NewSitesHandler(d.Catalog, d.Logger))
	r.Handler(NewTranslationsHandler(d.Catalog, d.Exporter, d.Logger))
	r.Handler(NewExportsHandler(d.Catalog, d.Logger))
	if d.Archives != nil {
		r.Handler(NewMediaHandler(d.Archives, d.MediaPath, filenameOf(d.Exporter), d.Logger))
	}
	r.Handle(http.MethodGet, "/healthz", d.Health)
	return r
}

func filenameOf(e Exporter) string {
	if e == nil {
		return "sites.zip"
	}
	return e.Filename()
}

// Serve runs an HTTP server on addr until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}
