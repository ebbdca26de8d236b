package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/desertthunder/tlx/internal/shared"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob" // registers mem:// for bucket URLs
	"gocloud.dev/gcerrors"
)

// ContentType is written as the attribute of every stored archive
const ContentType = "application/zip"

// Bucket stores archives by key and maps keys to public URLs under a media prefix
type Bucket struct {
	bucket   *blob.Bucket
	mediaURL string
}

// Object describes a stored archive opened for reading
type Object struct {
	io.ReadCloser
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Open opens the bucket described by cfg.
//
// A non-empty BucketURL wins; otherwise a directory bucket is created at MediaRoot.
func Open(ctx context.Context, cfg shared.ExportConfig) (*Bucket, error) {
	var (
		b   *blob.Bucket
		err error
	)
	if cfg.BucketURL != "" {
		b, err = blob.OpenBucket(ctx, cfg.BucketURL)
	} else {
		b, err = fileblob.OpenBucket(cfg.MediaRoot, &fileblob.Options{CreateDir: true})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}
	return NewBucket(b, cfg.MediaURL), nil
}

// NewBucket wraps an already opened bucket
func NewBucket(b *blob.Bucket, mediaURL string) *Bucket {
	if mediaURL == "" {
		mediaURL = "/media/"
	}
	return &Bucket{bucket: b, mediaURL: mediaURL}
}

// ArchiveKey returns "<dir>/<archiveID>.zip"
func ArchiveKey(dir, archiveID string) string {
	return path.Join(dir, archiveID+".zip")
}

// Put writes data under key, replacing any existing object
func (b *Bucket) Put(ctx context.Context, key string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: ContentType}
	if err := b.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("%w: write %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return nil
}

// Open returns a reader for key. Callers must close it.
func (b *Bucket) Open(ctx context.Context, key string) (*Object, error) {
	r, err := b.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrExportNotFound, key)
		}
		return nil, fmt.Errorf("%w: read %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return &Object{
		ReadCloser:  r,
		Key:         key,
		Size:        r.Size(),
		ContentType: r.ContentType(),
		ModTime:     r.ModTime(),
	}, nil
}

// ReadAll returns the full contents stored under key
func (b *Bucket) ReadAll(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return data, nil
}

// Exists reports whether key is present
func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := b.bucket.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}
	return ok, nil
}

// Delete removes key; a missing key is reported as [shared.ErrExportNotFound]
func (b *Bucket) Delete(ctx context.Context, key string) error {
	if err := b.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return fmt.Errorf("%w: %s", shared.ErrExportNotFound, key)
		}
		return fmt.Errorf("%w: delete %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return nil
}

// URL returns the public URL for key under the media prefix
func (b *Bucket) URL(key string) string {
	return strings.TrimSuffix(b.mediaURL, "/") + "/" + strings.TrimPrefix(key, "/")
}

// KeyFromPath strips the media prefix from a request path, returning false when the path is outside it
func (b *Bucket) KeyFromPath(p string) (string, bool) {
	prefix := strings.TrimSuffix(b.mediaURL, "/") + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(p, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// CheckHealth reports an error when the bucket cannot be reached. It satisfies the health.Checker interface.
func (b *Bucket) CheckHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := b.bucket.IsAccessible(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("%w: bucket is not accessible", shared.ErrStorageUnavailable)
	}
	return nil
}

func (b *Bucket) Close() error {
	return b.bucket.Close()
}
