package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/desertthunder/tlx/internal/formatter"
	"github.com/desertthunder/tlx/internal/services"
	"github.com/desertthunder/tlx/internal/ui"
	"github.com/urfave/cli/v3"
)

type translationOutput struct {
	ID       string `json:"id"`
	Site     string `json:"site"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Language string `json:"language"`
	KeyType  string `json:"key_type"`
}

func newTranslationOutput(t *services.TranslationView) translationOutput {
	return translationOutput{
		ID:       t.ID(),
		Site:     t.SiteName,
		Key:      t.Key(),
		Value:    t.Value(),
		Language: string(t.Language()),
		KeyType:  string(t.KeyType()),
	}
}

// TranslationCreate stores a translation, deriving its kind from the key prefix.
func (r *Runner) TranslationCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	view, err := r.catalog.CreateTranslation(services.TranslationInput{
		Site:     cmd.String("site"),
		Key:      cmd.String("key"),
		Value:    cmd.String("value"),
		Language: cmd.String("language"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("translation created", "site", view.SiteName, "key", view.Key(), "language", view.Language())
	path := formatter.EntryPath(view.SiteName, view.Language(), view.KeyType())
	return r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Created %s (%s) in %s", view.Key(), view.KeyType().Label(), path)))
}

// TranslationList prints translations, optionally filtered by site and language.
func (r *Runner) TranslationList(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	views, err := r.catalog.ListTranslations(services.TranslationFilter{
		Site:     cmd.String("site"),
		Language: cmd.String("language"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]translationOutput, len(views))
		for i, v := range views {
			out[i] = newTranslationOutput(v)
		}
		return r.writeJSON(out, true)
	}

	if len(views) == 0 {
		return r.writePlain("%s\n", ui.Warn("No translations found"))
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SITE\tLANG\tTYPE\tKEY\tVALUE")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.SiteName, v.Language(), v.KeyType(), v.Key(), formatter.EscapeValue(v.Value()))
	}
	return tw.Flush()
}
