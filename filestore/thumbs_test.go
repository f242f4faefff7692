package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *ThumbnailStore {
	t.Helper()
	return NewThumbnailStore(NewLocalAdapter(t.TempDir()))
}

func TestThumbnailStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	data, err := store.GetThumb("2024-05-01_10-00-00_0000", 400, 300, 75, "jpg")
	assert.NoError(t, err)
	assert.Nil(t, data)

	err = store.PutThumb("2024-05-01_10-00-00_0000", 400, 300, 75, "jpg", []byte("jpeg bytes"))
	assert.NoError(t, err)

	data, err = store.GetThumb("2024-05-01_10-00-00_0000", 400, 300, 75, "jpg")
	assert.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)

	// A different geometry is a different cache entry
	data, err = store.GetThumb("2024-05-01_10-00-00_0000", 200, 150, 75, "jpg")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestThumbnailStoreFaceCrop(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.PutFaceCrop(7, []byte("crop")))
	data, err := store.GetFaceCrop(7)
	assert.NoError(t, err)
	assert.Equal(t, []byte("crop"), data)
}

func TestThumbnailStoreInvalidateFile(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.PutThumb("file-a", 400, 300, 75, "jpg", []byte("a1")))
	assert.NoError(t, store.PutThumb("file-a", 200, 150, 75, "webp", []byte("a2")))
	assert.NoError(t, store.PutThumb("file-b", 400, 300, 75, "jpg", []byte("b")))

	assert.NoError(t, store.InvalidateFile("file-a"))

	data, err := store.GetThumb("file-a", 400, 300, 75, "jpg")
	assert.NoError(t, err)
	assert.Nil(t, data)

	data, err = store.GetThumb("file-b", 400, 300, 75, "jpg")
	assert.NoError(t, err)
	assert.Equal(t, []byte("b"), data)
}

func TestLocalAdapterList(t *testing.T) {
	adapter := NewLocalAdapter(t.TempDir())
	assert.NoError(t, adapter.Save("dir/one.txt", []byte("1")))
	assert.NoError(t, adapter.Save("dir/two.txt", []byte("2")))

	files, err := adapter.List("dir")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"one.txt", "two.txt"}, files)

	exists, err := adapter.Exists("dir/one.txt")
	assert.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, adapter.Delete("dir/one.txt"))
	exists, err = adapter.Exists("dir/one.txt")
	assert.NoError(t, err)
	assert.False(t, exists)
}
