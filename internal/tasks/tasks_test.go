package tasks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
	th "github.com/desertthunder/tlx/internal/testing"
)

type mockArchiveStore struct {
	objects map[string][]byte
	putErr  error
}

func newMockArchiveStore() *mockArchiveStore {
	return &mockArchiveStore{objects: map[string][]byte{}}
}

func (m *mockArchiveStore) Put(ctx context.Context, key string, data []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *mockArchiveStore) URL(key string) string {
	return "/media/" + key
}

func fixedClock() time.Time { return th.FixedTime }

func TestParseSiteList(t *testing.T) {
	tc := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "single", raw: "site1", want: []string{"site1"}},
		{name: "trimmed", raw: " site1 , site2 ", want: []string{"site1", "site2"}},
		{name: "blank parts dropped", raw: "site1,,site2,", want: []string{"site1", "site2"}},
		{name: "empty", raw: "", wantErr: true},
		{name: "commas and spaces only", raw: " , ,", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSiteList(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrEmptyRequest) {
					t.Errorf("expected ErrEmptyRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSiteList() error = %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("ParseSiteList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	setup := func() (*th.MockRecordStore, *mockArchiveStore, *ExportEngine) {
		store := th.NewMockRecordStore()
		site := store.AddSite("site1")
		store.AddTranslation(site, "//welcome", "Welcome", models.English)
		store.AddTranslation(site, "__timeout", "30", models.English)
		archives := newMockArchiveStore()
		engine := NewExportEngine(store, archives, ExportOpts{Clock: fixedClock}, nil)
		return store, archives, engine
	}

	t.Run("Success", func(t *testing.T) {
		store, archives, engine := setup()

		manifest, err := engine.Export(ctx, nil, "site1, missing")
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		if manifest.Message != ExportMessage || manifest.Filename != "sites.zip" {
			t.Errorf("unexpected manifest %+v", manifest)
		}
		if !strings.HasPrefix(manifest.StorageKey, "translation_exports/") || !strings.HasSuffix(manifest.StorageKey, ".zip") {
			t.Errorf("unexpected storage key %s", manifest.StorageKey)
		}
		if manifest.FileURL != "/media/"+manifest.StorageKey {
			t.Errorf("unexpected file URL %s", manifest.FileURL)
		}
		if manifest.Entries != 2 || manifest.Keys != 2 {
			t.Errorf("expected 2 files with 2 keys, got %d/%d", manifest.Entries, manifest.Keys)
		}

		data, ok := archives.objects[manifest.StorageKey]
		if !ok || int64(len(data)) != manifest.Size {
			t.Fatalf("archive not stored under %s", manifest.StorageKey)
		}
		if names := th.ZipNames(th.MustReadZip(t, data)); len(names) != 2 {
			t.Errorf("unexpected entries %v", names)
		}

		if len(store.Exports) != 1 {
			t.Fatalf("expected 1 export record, got %d", len(store.Exports))
		}
		rec := store.Exports[0]
		if rec.ArchiveID() != manifest.ArchiveID || rec.JoinedSites() != "site1,missing" {
			t.Errorf("unexpected export record %s %s", rec.ArchiveID(), rec.JoinedSites())
		}
	})

	t.Run("Unique Keys", func(t *testing.T) {
		_, archives, engine := setup()

		first, err := engine.Export(ctx, nil, "site1")
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		second, err := engine.Export(ctx, nil, "site1")
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		if first.StorageKey == second.StorageKey {
			t.Error("each export should be stored under its own key")
		}
		if !bytes.Equal(archives.objects[first.StorageKey], archives.objects[second.StorageKey]) {
			t.Error("archives should be byte-identical for a fixed clock")
		}
	})

	t.Run("Empty Request", func(t *testing.T) {
		_, archives, engine := setup()

		if _, err := engine.Export(ctx, nil, " , "); !errors.Is(err, shared.ErrEmptyRequest) {
			t.Errorf("expected ErrEmptyRequest, got %v", err)
		}
		if len(archives.objects) != 0 {
			t.Error("nothing should be stored for an empty request")
		}
	})

	t.Run("All Sites Missing", func(t *testing.T) {
		_, _, engine := setup()

		manifest, err := engine.Export(ctx, nil, "nope")
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if manifest.Entries != 0 {
			t.Errorf("expected empty archive, got %d entries", manifest.Entries)
		}
	})

	t.Run("Storage Error", func(t *testing.T) {
		store, archives, engine := setup()
		archives.putErr = shared.ErrStorageUnavailable

		if _, err := engine.Export(ctx, nil, "site1"); !errors.Is(err, shared.ErrStorageUnavailable) {
			t.Errorf("expected ErrStorageUnavailable, got %v", err)
		}
		if len(store.Exports) != 0 {
			t.Error("history should not be recorded when storage fails")
		}
	})

	t.Run("History Error", func(t *testing.T) {
		store, _, engine := setup()
		store.RecordErr = errors.New("disk full")

		if _, err := engine.Export(ctx, nil, "site1"); err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Errorf("expected history error, got %v", err)
		}
	})

	t.Run("No Archive Store", func(t *testing.T) {
		engine := NewExportEngine(th.NewMockRecordStore(), nil, ExportOpts{}, nil)
		if _, err := engine.Export(ctx, nil, "site1"); !errors.Is(err, shared.ErrStorageUnavailable) {
			t.Errorf("expected ErrStorageUnavailable, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		_, archives, engine := setup()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := engine.Export(cctx, nil, "site1"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(archives.objects) != 0 {
			t.Error("nothing should be stored after cancellation")
		}
	})

	t.Run("Progress", func(t *testing.T) {
		_, _, engine := setup()
		progress := make(chan ProgressUpdate, 20)

		if _, err := engine.Export(ctx, progress, "site1,missing"); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		if len(phases) == 0 || phases[0] != ResolveSites || phases[len(phases)-1] != Completed {
			t.Errorf("unexpected phases %v", phases)
		}
	})

	t.Run("Full Progress Channel Does Not Block", func(t *testing.T) {
		_, _, engine := setup()
		progress := make(chan ProgressUpdate)

		if _, err := engine.Export(ctx, progress, "site1"); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
	})
}

func TestStream(t *testing.T) {
	store := th.NewMockRecordStore()
	site := store.AddSite("site1")
	store.AddTranslation(site, "//welcome", "Welcome", models.English)
	archives := newMockArchiveStore()
	engine := NewExportEngine(store, archives, ExportOpts{Clock: fixedClock}, nil)

	var buf bytes.Buffer
	result, err := engine.Stream(&buf, "site1")
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if len(result.Files) != 1 {
		t.Errorf("expected 1 file, got %d", len(result.Files))
	}
	if len(archives.objects) != 0 || len(store.Exports) != 0 {
		t.Error("Stream() must not persist anything")
	}

	manifest, err := engine.Export(context.Background(), nil, "site1")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), archives.objects[manifest.StorageKey]) {
		t.Error("streamed and stored archives should match for the same clock")
	}

	if _, err := engine.Stream(&buf, ""); !errors.Is(err, shared.ErrEmptyRequest) {
		t.Errorf("expected ErrEmptyRequest, got %v", err)
	}
}

func TestPhaseString(t *testing.T) {
	tc := map[Phase]string{
		ResolveSites: "resolve_sites",
		RenderFiles:  "render_files",
		StoreArchive: "store_archive",
		Completed:    "completed",
		Phase(99):    "",
	}
	for phase, want := range tc {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
