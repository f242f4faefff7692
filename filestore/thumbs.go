package filestore

import (
	"fmt"
)

// ThumbnailStore caches resized media and face crops on a Backend, keyed
// by file id and output geometry
type ThumbnailStore struct {
	backend Backend
}

// NewThumbnailStore creates a thumbnail store over the given backend
func NewThumbnailStore(backend Backend) *ThumbnailStore {
	return &ThumbnailStore{backend: backend}
}

func thumbKey(fileID string, width, height, quality int, format string) string {
	return fmt.Sprintf("thumbs/%s_%dx%d_q%d.%s", fileID, width, height, quality, format)
}

func faceKey(faceID int64) string {
	return fmt.Sprintf("faces/%d.jpg", faceID)
}

// GetThumb returns a cached rendition, or nil when absent
func (t *ThumbnailStore) GetThumb(fileID string, width, height, quality int, format string) ([]byte, error) {
	key := thumbKey(fileID, width, height, quality, format)
	exists, err := t.backend.Exists(key)
	if err != nil || !exists {
		return nil, err
	}
	return t.backend.Load(key)
}

// PutThumb stores a rendition
func (t *ThumbnailStore) PutThumb(fileID string, width, height, quality int, format string, data []byte) error {
	return t.backend.Save(thumbKey(fileID, width, height, quality, format), data)
}

// GetFaceCrop returns a cached face crop, or nil when absent
func (t *ThumbnailStore) GetFaceCrop(faceID int64) ([]byte, error) {
	key := faceKey(faceID)
	exists, err := t.backend.Exists(key)
	if err != nil || !exists {
		return nil, err
	}
	return t.backend.Load(key)
}

// PutFaceCrop stores a face crop
func (t *ThumbnailStore) PutFaceCrop(faceID int64, data []byte) error {
	return t.backend.Save(faceKey(faceID), data)
}

// InvalidateFile drops every cached rendition of a file, e.g. after its
// orientation changed
func (t *ThumbnailStore) InvalidateFile(fileID string) error {
	names, err := t.backend.List("thumbs")
	if err != nil {
		return nil
	}
	for _, name := range names {
		if len(name) > len(fileID) && name[:len(fileID)+1] == fileID+"_" {
			if err := t.backend.Delete("thumbs/" + name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Backend returns the underlying storage backend
func (t *ThumbnailStore) Backend() Backend {
	return t.backend
}
