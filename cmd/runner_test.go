package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
	"github.com/desertthunder/tlx/internal/storage"
	"github.com/desertthunder/tlx/internal/tasks"
	tu "github.com/desertthunder/tlx/internal/testing"
	"gocloud.dev/blob/memblob"
)

type testRunner struct {
	*Runner
	out *bytes.Buffer
}

func newTestRunner(t *testing.T) *testRunner {
	t.Helper()
	bucket := storage.NewBucket(memblob.OpenBucket(nil), "/media/")
	t.Cleanup(func() { bucket.Close() })

	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: out,
		DB:     tu.MustOpenDB(t),
		Bucket: bucket,
	})
	return &testRunner{Runner: r, out: out}
}

// run executes args against a fresh command tree and returns what was printed
func (tr *testRunner) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	tr.out.Reset()
	err := tr.app().Run(context.Background(), append([]string{"tlx"}, args...))
	return tr.out.String(), err
}

func (tr *testRunner) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tr.run(t, args...)
	if err != nil {
		t.Fatalf("tlx %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			db := tu.MustOpenDB(t)

			runner := NewRunner(RunnerOpts{Config: config, Logger: logger, Output: output, DB: db})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.db != db {
				t.Error("expected db to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("injected dependencies are not closed", func(t *testing.T) {
			tr := newTestRunner(t)
			tr.mustRun(t, "site", "list")

			if len(tr.owned) != 0 {
				t.Errorf("expected nothing owned, got %d", len(tr.owned))
			}
			if err := tr.db.Ping(); err != nil {
				t.Errorf("injected database should stay open: %v", err)
			}
		})
	})

	t.Run("open", func(t *testing.T) {
		t.Run("opens configured database and bucket", func(t *testing.T) {
			dir := t.TempDir()
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(dir, "tlx.db")
			config.Export.MediaRoot = filepath.Join(dir, "media")

			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
			if err := runner.app().Run(context.Background(), []string{"tlx", "site", "create", "site1"}); err != nil {
				t.Fatalf("site create: %v", err)
			}

			tu.AssertFileExists(t, config.Database.Path)
			if len(runner.owned) != 0 {
				t.Error("expected After to release owned resources")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "site", "translation", "export", "serve", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		tr := newTestRunner(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		out := tr.mustRun(t, "--config", path, "setup", "config")
		if !strings.Contains(out, path) {
			t.Errorf("expected path in output, got %q", out)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config should load: %v", err)
		}

		if _, err := tr.run(t, "--config", path, "setup", "config"); err == nil {
			t.Error("expected error when the config already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		tr := newTestRunner(t)

		out := tr.mustRun(t, "setup", "database")
		if !strings.Contains(out, "Database ready") {
			t.Errorf("unexpected output %q", out)
		}

		applied, err := shared.AppliedMigrations(tr.db)
		if err != nil || len(applied) == 0 {
			t.Errorf("expected applied migrations, got %v, %v", applied, err)
		}
	})
}

func TestSiteCommands(t *testing.T) {
	tr := newTestRunner(t)

	t.Run("create and list", func(t *testing.T) {
		tr.mustRun(t, "site", "create", "--description", "Main site", "site1")
		tr.mustRun(t, "site", "create", "site2")

		out := tr.mustRun(t, "site", "list")
		if !strings.Contains(out, "site1") || !strings.Contains(out, "Main site") || !strings.Contains(out, "site2") {
			t.Errorf("unexpected list output %q", out)
		}
		if strings.Index(out, "site1") > strings.Index(out, "site2") {
			t.Error("sites should be listed in creation order")
		}
	})

	t.Run("list json", func(t *testing.T) {
		var sites []siteOutput
		if err := json.Unmarshal([]byte(tr.mustRun(t, "site", "list", "--json")), &sites); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(sites) != 2 || sites[0].Name != "site1" || sites[0].ID == "" {
			t.Errorf("unexpected sites %+v", sites)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := tr.run(t, "site", "create", "site1")
		var verr *models.ValidationError
		if !errors.As(err, &verr) || !verr.Has("name") {
			t.Errorf("expected name validation error, got %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		if _, err := tr.run(t, "site", "create"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		tr.mustRun(t, "site", "delete", "site2")

		if out := tr.mustRun(t, "site", "list"); strings.Contains(out, "site2") {
			t.Errorf("site2 should be gone, got %q", out)
		}
		if _, err := tr.run(t, "site", "delete", "site2"); !errors.Is(err, shared.ErrSiteNotFound) {
			t.Errorf("expected ErrSiteNotFound, got %v", err)
		}
	})
}

func TestTranslationCommands(t *testing.T) {
	tr := newTestRunner(t)
	tr.mustRun(t, "site", "create", "site1")

	t.Run("create", func(t *testing.T) {
		out := tr.mustRun(t, "translation", "create", "--site", "site1", "--key", "//welcome", "--value", "Welcome", "--language", "en")
		if !strings.Contains(out, "site1/en-EN.tpl") {
			t.Errorf("expected target file in output, got %q", out)
		}

		out = tr.mustRun(t, "tr", "create", "-s", "site1", "-k", "__timeout", "--value", "30", "-l", "ES")
		if !strings.Contains(out, "site1/es-ES.ini") {
			t.Errorf("expected target file in output, got %q", out)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := tr.run(t, "translation", "create", "--site", "site1", "--key", "badkey")
		var verr *models.ValidationError
		if !errors.As(err, &verr) || !verr.Has("key") {
			t.Errorf("expected key validation error, got %v", err)
		}
	})

	t.Run("list filtered", func(t *testing.T) {
		var views []translationOutput
		out := tr.mustRun(t, "translation", "list", "--language", "ES", "--json")
		if err := json.Unmarshal([]byte(out), &views); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(views) != 1 || views[0].Key != "__timeout" || views[0].KeyType != "INI" || views[0].Site != "site1" {
			t.Errorf("unexpected translations %+v", views)
		}
	})

	t.Run("list table", func(t *testing.T) {
		out := tr.mustRun(t, "translation", "list", "--site", "site1")
		if !strings.Contains(out, "//welcome") || !strings.Contains(out, "__timeout") {
			t.Errorf("unexpected list output %q", out)
		}
	})
}

func TestExportCommands(t *testing.T) {
	tr := newTestRunner(t)
	tr.mustRun(t, "site", "create", "site1")
	tr.mustRun(t, "translation", "create", "--site", "site1", "--key", "//welcome", "--value", "Welcome")
	tr.mustRun(t, "translation", "create", "--site", "site1", "--key", "__timeout", "--value", "30")

	t.Run("run stores archive", func(t *testing.T) {
		out := tr.mustRun(t, "export", "run", "site1,missing")
		if !strings.Contains(out, tasks.ExportMessage) {
			t.Errorf("expected success message, got %q", out)
		}
		if !strings.Contains(out, "/media/translation_exports/") {
			t.Errorf("expected file URL, got %q", out)
		}
		if !strings.Contains(out, "missing skipped") {
			t.Errorf("expected skipped site in progress, got %q", out)
		}
	})

	t.Run("empty request", func(t *testing.T) {
		if _, err := tr.run(t, "export", "run", " , "); !errors.Is(err, shared.ErrEmptyRequest) {
			t.Errorf("expected ErrEmptyRequest, got %v", err)
		}
	})

	t.Run("history", func(t *testing.T) {
		var history []exportOutput
		if err := json.Unmarshal([]byte(tr.mustRun(t, "export", "history", "--json")), &history); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected 1 export, got %d", len(history))
		}
		if history[0].Entries != 2 || len(history[0].Sites) != 2 || history[0].Filename != "sites.zip" {
			t.Errorf("unexpected history entry %+v", history[0])
		}
	})

	t.Run("inspect stored archive", func(t *testing.T) {
		records, err := tr.catalog.ListExports(1)
		if err != nil || len(records) != 1 {
			t.Fatalf("ListExports() = %v, %v", records, err)
		}

		for _, ref := range []string{records[0].ArchiveID(), records[0].FileURL(), records[0].StorageKey()} {
			out := tr.mustRun(t, "export", "inspect", ref)
			if !strings.Contains(out, "site1/en-EN.tpl") || !strings.Contains(out, "site1/en-EN.ini") {
				t.Errorf("inspect %s: unexpected output %q", ref, out)
			}
		}

		out := tr.mustRun(t, "export", "inspect", "--entries", records[0].ArchiveID())
		if !strings.Contains(out, "//welcome") || !strings.Contains(out, "Welcome") {
			t.Errorf("expected entries in output, got %q", out)
		}
	})

	t.Run("inspect missing archive", func(t *testing.T) {
		if _, err := tr.run(t, "export", "inspect", "nope"); !errors.Is(err, shared.ErrExportNotFound) {
			t.Errorf("expected ErrExportNotFound, got %v", err)
		}
	})

	t.Run("run to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.zip")
		out := tr.mustRun(t, "export", "run", "--output", path, "site1")
		if !strings.Contains(out, "Wrote 2 files") {
			t.Errorf("unexpected output %q", out)
		}

		entries := tu.MustReadZip(t, []byte(tu.MustReadFile(t, path)))
		names := tu.ZipNames(entries)
		if len(names) != 2 || names[0] != "site1/en-EN.tpl" || names[1] != "site1/en-EN.ini" {
			t.Errorf("unexpected archive entries %v", names)
		}

		if out := tr.mustRun(t, "export", "inspect", path); !strings.Contains(out, "site1/en-EN.ini") {
			t.Errorf("inspect of local file failed: %q", out)
		}

		records, _ := tr.catalog.ListExports(0)
		if len(records) != 1 {
			t.Errorf("file output should not be recorded, got %d exports", len(records))
		}
	})

	t.Run("delete", func(t *testing.T) {
		records, _ := tr.catalog.ListExports(0)
		rec := records[0]

		tr.mustRun(t, "export", "delete", rec.ArchiveID())

		if ok, _ := tr.bucket.Exists(context.Background(), rec.StorageKey()); ok {
			t.Error("stored archive should be removed")
		}
		if out := tr.mustRun(t, "export", "history"); !strings.Contains(out, "No exports yet") {
			t.Errorf("history should be empty, got %q", out)
		}
		if _, err := tr.run(t, "export", "delete", rec.ArchiveID()); !errors.Is(err, shared.ErrExportNotFound) {
			t.Errorf("expected ErrExportNotFound, got %v", err)
		}
	})
}
