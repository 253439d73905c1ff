// Package storage keeps uploaded images on local disk. Posts and
// profiles only reference images by link, so the store is a flat
// directory of content-named files.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"itshere/errors"
)

// maxImageBytes caps uploads at 8 MiB.
const maxImageBytes = 8 << 20

type ImageStore struct {
	dir string
	log *slog.Logger
}

func NewImageStore(dir string, log *slog.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &ImageStore{dir: dir, log: log}, nil
}

// Save persists an uploaded image and returns its generated filename.
// Anything that does not sniff as an image is rejected.
func (s *ImageStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", errors.ErrImageTooLarge
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		s.log.Warn("upload rejected", "mime", mime.String())
		return "", errors.ErrNotAnImage
	}

	name := uuid.NewString() + mime.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// Path resolves a stored filename to its on-disk location. Names with
// path separators are rejected so the store cannot be escaped.
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", errors.ErrImageNotFound
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", errors.ErrImageNotFound
	}
	return path, nil
}
