// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// siteCommand handles site management
func siteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "site",
		Usage: "Manage sites",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a site",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Free-text description",
					},
				},
				Action: r.SiteCreate,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List sites in creation order",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SiteList,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a site and all of its translations",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.SiteDelete,
			},
		},
	}
}

// translationCommand handles translation management
func translationCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "translation",
		Aliases: []string{"tr"},
		Usage:   "Manage translations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a translation; the key prefix (// or __) decides its file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "site",
						Aliases:  []string{"s"},
						Usage:    "Site name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "key",
						Aliases:  []string{"k"},
						Usage:    "Translation key (//name for .tpl, __name for .ini)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "value",
						Usage: "Translated text",
					},
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "Language code (EN or ES)",
						Value:   "EN",
					},
				},
				Action: r.TranslationCreate,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List translations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "site",
						Aliases: []string{"s"},
						Usage:   "Only this site",
					},
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "Only this language",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TranslationList,
			},
		},
	}
}

// exportCommand handles archive generation and history
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Generate and inspect translation archives",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Export a comma-separated list of sites",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "sites",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the archive to this file instead of storing it",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the manifest as JSON",
					},
				},
				Action: r.ExportRun,
			},
			{
				Name:  "inspect",
				Usage: "List the files of an archive (local path, media URL path or storage key)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "archive",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "entries",
						Usage: "Print every key/value pair",
					},
				},
				Action: r.ExportInspect,
			},
			{
				Name:  "history",
				Usage: "Show recent exports, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of exports to show (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ExportHistory,
			},
			{
				Name:  "delete",
				Usage: "Delete a stored archive and its history entry",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "archive-id",
					},
				},
				Action: r.ExportDelete,
			},
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.host/server.port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Pick sites and export them interactively",
		Action: r.TUI,
	}
}
