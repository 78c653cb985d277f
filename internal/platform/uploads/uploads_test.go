package uploads

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(t.TempDir())
	store.now = func() time.Time { return time.Unix(0, 42) }
	store.newID = func() string { return "abc" }
	return store
}

func TestSave_WritesPNGWithGeneratedName(t *testing.T) {
	store := newTestStore(t)
	data := pngBytes(t)

	stored, err := store.Save(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "uploads/42-abc.png", stored)

	written, err := os.ReadFile(filepath.Join(store.Dir(), "42-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, data, written)

	require.NoError(t, store.Remove(stored))
	_, err = os.Stat(filepath.Join(store.Dir(), "42-abc.png"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Remove(stored))
}

func TestSave_RejectsNonImages(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("GIF89a not allowed"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	entries, _ := os.ReadDir(store.Dir())
	assert.Empty(t, entries)
}

func TestSave_RejectsOversizedStreams(t *testing.T) {
	store := newTestStore(t)
	data := append(pngBytes(t), bytes.Repeat([]byte{0}, MaxImageSize)...)

	_, err := store.Save(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrImageTooLarge)
	entries, _ := os.ReadDir(store.Dir())
	assert.Empty(t, entries)
}

func TestSaveMultipart_RequiresFile(t *testing.T) {
	_, err := newTestStore(t).SaveMultipart(nil)
	assert.ErrorIs(t, err, ErrMissingImage)
}
