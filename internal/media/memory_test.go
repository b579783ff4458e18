package media

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ref, err := store.Save(ctx, "photo.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "/media/"+ref, URL(ref))

	obj, err := store.Open(ctx, ref)
	require.NoError(t, err)
	defer obj.Close()
	assert.Equal(t, "image/png", obj.ContentType)
	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Open(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RejectsNonImages(t *testing.T) {
	_, err := NewMemoryStore().Save(context.Background(), "notes.txt", strings.NewReader("hello world"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestStoredName(t *testing.T) {
	name := storedName("Holiday.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.Len(t, name, 36+4)
	assert.NotEqual(t, name, storedName("Holiday.JPG"))
}
