package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tlx/internal/repositories"
	"github.com/desertthunder/tlx/internal/services"
	"github.com/desertthunder/tlx/internal/shared"
	"github.com/desertthunder/tlx/internal/storage"
	"github.com/desertthunder/tlx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, bucket and the services built on them are opened lazily by [Runner.open] so that commands
// like `setup config` work without either.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
	bucket  *storage.Bucket
	store   *repositories.Store
	catalog services.Catalog
	engine  *tasks.ExportEngine
	owned   []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// DB and Bucket are optional; when set they are used as-is and never closed by the Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	DB     *sql.DB
	Bucket *storage.Bucket
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		db:     opts.DB,
		bucket: opts.Bucket,
	}
}

// SetLogger replaces the runner's logger
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// loadConfig resolves the config from the --config flag unless one was injected
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	config, err := shared.ResolveConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	r.config = config
	r.logger.SetLevel(shared.ParseLogLevel(config.Log.Level))
	return config, nil
}

// open prepares the database, archive bucket, catalog and export engine. It is safe to call repeatedly.
func (r *Runner) open(ctx context.Context, cmd *cli.Command) error {
	if r.engine != nil {
		return nil
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if r.db == nil {
		r.logger.Debug("opening database", "path", config.Database.Path)
		db, err := shared.OpenDatabase(config.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
		r.owned = append(r.owned, db)
	}

	if r.bucket == nil {
		bucket, err := storage.Open(ctx, config.Export)
		if err != nil {
			return err
		}
		r.bucket = bucket
		r.owned = append(r.owned, bucket)
	}

	r.store = repositories.NewStore(r.db)
	r.catalog = services.NewCatalogService(r.store, shared.WithLogger(r.logger, "component", "catalog"))
	r.engine = tasks.NewExportEngine(r.store, r.bucket, tasks.ExportOpts{
		Filename:  config.Export.Filename,
		Directory: config.Export.Directory,
	}, shared.WithLogger(r.logger, "component", "export"))
	return nil
}

// Close releases everything [Runner.open] opened
func (r *Runner) Close() error {
	var errs []error
	for i := len(r.owned) - 1; i >= 0; i-- {
		if err := r.owned[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.owned = nil
	return errors.Join(errs...)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, siteCommand, translationCommand, exportCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "tlx",
		Usage:   "Manage per-site translations and export them as .tpl/.ini bundles",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Commands: r.register(),
		After: func(ctx context.Context, cmd *cli.Command) error {
			return r.Close()
		},
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
