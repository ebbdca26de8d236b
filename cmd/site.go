package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/services"
	"github.com/desertthunder/tlx/internal/shared"
	"github.com/desertthunder/tlx/internal/ui"
	"github.com/urfave/cli/v3"
)

type siteOutput struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SiteCreate stores a new site.
func (r *Runner) SiteCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: site name is required", shared.ErrMissingArgument)
	}
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	site, err := r.catalog.CreateSite(services.SiteInput{Name: name, Description: cmd.String("description")})
	if err != nil {
		return err
	}

	r.logger.Info("site created", "name", site.Name(), "id", site.ID())
	return r.writePlain("%s\n", ui.OK("✓ Created site "+site.Name()))
}

// SiteList prints every site in creation order.
func (r *Runner) SiteList(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	sites, err := r.catalog.ListSites()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]siteOutput, len(sites))
		for i, s := range sites {
			out[i] = newSiteOutput(s)
		}
		return r.writeJSON(out, true)
	}

	if len(sites) == 0 {
		return r.writePlain("%s\n", ui.Warn("No sites found"))
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION\tCREATED")
	for _, s := range sites {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name(), s.Description(), s.CreatedAt().Format(time.DateTime))
	}
	return tw.Flush()
}

// SiteDelete removes a site together with its translations.
func (r *Runner) SiteDelete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	if err := r.catalog.DeleteSite(name); err != nil {
		return err
	}

	r.logger.Info("site deleted", "name", name)
	return r.writePlain("%s\n", ui.OK("✓ Deleted site "+name))
}

func newSiteOutput(s *models.Site) siteOutput {
	return siteOutput{ID: s.ID(), Name: s.Name(), Description: s.Description(), CreatedAt: s.CreatedAt()}
}
