package storage

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"itshere/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := NewImageStore(t.TempDir(), slog.Default())
	require.NoError(t, err)
	return store
}

func TestImageStore_SaveAndResolve(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	name, err := store.Save(bytes.NewReader(pngHeader))
	req.NoError(err)
	req.True(strings.HasSuffix(name, ".png"))

	path, err := store.Path(name)
	req.NoError(err)
	data, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(pngHeader, data)
}

func TestImageStore_RejectsNonImage(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("definitely not an image"))
	require.ErrorIs(t, err, errors.ErrNotAnImage)
}

func TestImageStore_RejectsOversizedUpload(t *testing.T) {
	store := newTestStore(t)

	huge := append(append([]byte{}, pngHeader...), make([]byte, maxImageBytes)...)
	_, err := store.Save(bytes.NewReader(huge))
	require.ErrorIs(t, err, errors.ErrImageTooLarge)
}

func TestImageStore_PathRejectsTraversal(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	_, err := store.Path(filepath.Join("..", "secret"))
	req.ErrorIs(err, errors.ErrImageNotFound)

	_, err = store.Path("missing.png")
	req.ErrorIs(err, errors.ErrImageNotFound)
}
