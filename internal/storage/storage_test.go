package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/tlx/internal/shared"
	"gocloud.dev/blob/memblob"
)

func newMemBucket(t *testing.T) *Bucket {
	t.Helper()
	b := NewBucket(memblob.OpenBucket(nil), "/media/")
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Put And Open", func(t *testing.T) {
		b := newMemBucket(t)
		key := ArchiveKey("translation_exports", "abc")

		if err := b.Put(ctx, key, []byte("zipdata")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		obj, err := b.Open(ctx, key)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer obj.Close()

		data, _ := io.ReadAll(obj)
		if string(data) != "zipdata" {
			t.Errorf("expected zipdata, got %q", data)
		}
		if obj.Size != 7 {
			t.Errorf("expected size 7, got %d", obj.Size)
		}
		if obj.ContentType != ContentType {
			t.Errorf("expected content type %s, got %s", ContentType, obj.ContentType)
		}
	})

	t.Run("Missing Key", func(t *testing.T) {
		b := newMemBucket(t)

		if _, err := b.Open(ctx, "missing.zip"); !errors.Is(err, shared.ErrExportNotFound) {
			t.Errorf("expected ErrExportNotFound, got %v", err)
		}
		if err := b.Delete(ctx, "missing.zip"); !errors.Is(err, shared.ErrExportNotFound) {
			t.Errorf("expected ErrExportNotFound, got %v", err)
		}
		if ok, err := b.Exists(ctx, "missing.zip"); ok || err != nil {
			t.Errorf("Exists() = %v, %v", ok, err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		b := newMemBucket(t)
		if err := b.Put(ctx, "a.zip", []byte("x")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := b.Delete(ctx, "a.zip"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if ok, _ := b.Exists(ctx, "a.zip"); ok {
			t.Error("key should be gone after Delete()")
		}
	})
}

func TestCheckHealth(t *testing.T) {
	t.Run("Memory Bucket", func(t *testing.T) {
		if err := newMemBucket(t).CheckHealth(); err != nil {
			t.Errorf("CheckHealth() error = %v", err)
		}
	})

	t.Run("Directory Bucket", func(t *testing.T) {
		b, err := Open(context.Background(), shared.ExportConfig{MediaRoot: t.TempDir(), MediaURL: "/media/"})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer b.Close()

		if err := b.CheckHealth(); err != nil {
			t.Errorf("CheckHealth() error = %v", err)
		}
	})
}

func TestURLMapping(t *testing.T) {
	tc := []struct {
		name     string
		mediaURL string
		key      string
		want     string
	}{
		{name: "trailing slash", mediaURL: "/media/", key: "translation_exports/a.zip", want: "/media/translation_exports/a.zip"},
		{name: "no trailing slash", mediaURL: "/media", key: "a.zip", want: "/media/a.zip"},
		{name: "absolute host", mediaURL: "https://cdn.example.com/files/", key: "x/y.zip", want: "https://cdn.example.com/files/x/y.zip"},
		{name: "default prefix", mediaURL: "", key: "a.zip", want: "/media/a.zip"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bucket{mediaURL: tt.mediaURL}
			if tt.mediaURL == "" {
				b = NewBucket(nil, "")
			}
			if got := b.URL(tt.key); got != tt.want {
				t.Errorf("URL() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("KeyFromPath", func(t *testing.T) {
		b := NewBucket(nil, "/media/")

		if key, ok := b.KeyFromPath("/media/translation_exports/a.zip"); !ok || key != "translation_exports/a.zip" {
			t.Errorf("KeyFromPath() = %s, %v", key, ok)
		}
		for _, p := range []string{"/other/a.zip", "/media/", "/media/../secret"} {
			if _, ok := b.KeyFromPath(p); ok {
				t.Errorf("KeyFromPath(%s) should be rejected", p)
			}
		}
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Directory Bucket", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "media")
		b, err := Open(ctx, shared.ExportConfig{MediaRoot: root, MediaURL: "/media/"})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer b.Close()

		key := ArchiveKey("translation_exports", "id1")
		if err := b.Put(ctx, key, []byte("data")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "translation_exports", "id1.zip")); err != nil {
			t.Errorf("archive not written under media root: %v", err)
		}
	})

	t.Run("Bucket URL", func(t *testing.T) {
		b, err := Open(ctx, shared.ExportConfig{BucketURL: "mem://"})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer b.Close()

		data, err := b.ReadAll(ctx, "nothing.zip")
		if data != nil || !errors.Is(err, shared.ErrExportNotFound) {
			t.Errorf("ReadAll() = %v, %v", data, err)
		}
	})

	t.Run("Unknown Scheme", func(t *testing.T) {
		if _, err := Open(ctx, shared.ExportConfig{BucketURL: "bogus://bucket"}); !errors.Is(err, shared.ErrStorageUnavailable) {
			t.Errorf("expected ErrStorageUnavailable, got %v", err)
		}
	})
}
