// Package storage writes uploaded files to the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// maxNameAttempts bounds the millisecond bump on a name collision.
const maxNameAttempts = 1000

// DiskStore implements ports.FileStore under a root directory. Files are
// written to {root}/{category}/{category}_{millis}.{ext} and addressed
// publicly as {publicPrefix}/{category}/{filename}.
type DiskStore struct {
	root         string
	publicPrefix string
	now          func() time.Time
	log          zerolog.Logger
}

func NewDiskStore(root, publicPrefix string, log zerolog.Logger) *DiskStore {
	return &DiskStore{root: root, publicPrefix: publicPrefix, now: time.Now, log: log}
}

// Root returns the directory files are written under.
func (s *DiskStore) Root() string {
	return s.root
}

// Save streams r to a fresh file in the category directory. When more than
// maxBytes arrive the partial file is removed and domain.ErrPayloadTooLarge
// is returned.
func (s *DiskStore) Save(ctx context.Context, category domain.FileCategory, originalName string, r io.Reader, maxBytes int64) (*domain.UploadedFile, error) {
	dir := filepath.Join(s.root, string(category))
	// MkdirAll succeeds when the directory already exists, including when a
	// concurrent request created it first.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	f, name, err := s.create(dir, category, originalName)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(dir, name)

	n, err := io.Copy(f, io.LimitReader(&ctxReader{ctx: ctx, r: r}, maxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		s.remove(full)
		return nil, fmt.Errorf("write upload: %w", err)
	case n > maxBytes:
		s.remove(full)
		return nil, domain.ErrPayloadTooLarge
	case closeErr != nil:
		s.remove(full)
		return nil, fmt.Errorf("close upload: %w", closeErr)
	}

	return &domain.UploadedFile{
		Category: category,
		Filename: name,
		Path:     path.Join(s.publicPrefix, string(category), name),
		Size:     n,
	}, nil
}

// create opens a new file named after the current millisecond, moving to the
// next millisecond while the name is taken.
func (s *DiskStore) create(dir string, category domain.FileCategory, originalName string) (*os.File, string, error) {
	millis := s.now().UnixMilli()
	for i := 0; i < maxNameAttempts; i++ {
		name := domain.StoredName(category, millis+int64(i), originalName)
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if errors.Is(err, syscall.ENAMETOOLONG) {
			return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidFileName, err)
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create upload: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create upload: no free name in %s", dir)
}

// Open returns the stored file category/name. Names that are not a single
// path element and categories the store never writes to are not found.
func (s *DiskStore) Open(_ context.Context, category domain.FileCategory, name string) (ports.StoredFile, error) {
	full, ok := s.locate(category, name)
	if !ok {
		return nil, domain.ErrNotFound
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	if fi, err := f.Stat(); err != nil || !fi.Mode().IsRegular() {
		f.Close()
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// Remove deletes the stored file category/name. A missing file is not an error.
func (s *DiskStore) Remove(_ context.Context, category domain.FileCategory, name string) error {
	full, ok := s.locate(category, name)
	if !ok {
		return domain.ErrNotFound
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func (s *DiskStore) locate(category domain.FileCategory, name string) (string, bool) {
	switch category {
	case domain.CategoryImage, domain.CategoryDocument, domain.CategoryFile:
	default:
		return "", false
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(s.root, string(category), name), true
}

func (s *DiskStore) remove(full string) {
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", full).Msg("failed to remove partial upload")
	}
}

// ctxReader stops a copy once the request is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
