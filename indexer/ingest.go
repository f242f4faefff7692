package indexer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
)

// IngestFile brings a single media file under management: it decides the
// capture timestamp, renames the file on disk to its generated id, and
// creates the database row. Files already named by id are updated in
// place instead.
func IngestFile(path string, folderID int64) (*models.File, error) {
	mediaType := utils.MediaType(path)
	if mediaType == utils.MediaTypeOther {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	// A file whose base name parses as an id has been ingested before
	if _, err := models.TakenAtFromID(base); err == nil {
		return updateExisting(base, path, folderID, info.Size())
	}

	var meta *Metadata
	if mediaType == utils.MediaTypeImage {
		meta, err = ExtractImageMetadata(path)
		if err != nil {
			log.Warnf("Failed to read metadata for '%s': %s", path, err)
		}
	}
	if meta == nil {
		meta = &Metadata{Orientation: 1}
	}

	takenAt := info.ModTime()
	if meta.HasTakenAt {
		takenAt = meta.TakenAt
	}

	file := models.File{
		FolderID:    folderID,
		Type:        mediaType,
		Format:      strings.TrimPrefix(ext, "."),
		Length:      info.Size(),
		Width:       meta.Width,
		Height:      meta.Height,
		Orientation: meta.Orientation,
	}

	if meta.Latitude != nil && meta.Longitude != nil {
		tag, err := models.CreateGeoTag(*meta.Latitude, *meta.Longitude)
		if err != nil {
			log.Warnf("Failed to store geotag for '%s': %s", path, err)
		} else {
			file.GeoTagID = &tag.ID
		}
	}

	// The row claims the id before the file is renamed, so a concurrent
	// worker can never be handed the same target path
	created, err := models.CreateFileFromCapture(file, takenAt, ext)
	if err != nil {
		return nil, err
	}

	newPath := filepath.Join(filepath.Dir(path), created.Name)
	if newPath != path {
		if err := os.Rename(path, newPath); err != nil {
			if delErr := models.DeleteFile(created.ID); delErr != nil {
				log.Warnf("Failed to drop row '%s' after rename error: %s", created.ID, delErr)
			}
			return nil, err
		}
	}

	return created, nil
}

// updateExisting reconciles a previously ingested file with what is on
// disk. A row in a different folder means the file was moved.
func updateExisting(id, path string, folderID int64, size int64) (*models.File, error) {
	file, err := models.GetFile(id)
	if err != nil {
		return nil, err
	}
	if file == nil {
		// Row lost but file still carries an id name, re-create it
		takenAt, err := models.TakenAtFromID(id)
		if err != nil {
			return nil, err
		}
		ext := strings.ToLower(filepath.Ext(path))
		return models.CreateFile(models.File{
			ID:       id,
			Name:     filepath.Base(path),
			FolderID: folderID,
			Type:     utils.MediaType(path),
			Format:   strings.TrimPrefix(ext, "."),
			Length:   size,
			TakenAt:  takenAt.Unix(),
		})
	}

	changed := false
	if file.FolderID != folderID {
		log.Infof("File '%s' moved to folder %d", id, folderID)
		file.FolderID = folderID
		changed = true
	}
	if file.Length != size {
		file.Length = size
		changed = true
	}
	if changed {
		if err := models.UpdateFile(file); err != nil {
			return nil, err
		}
	}
	return file, nil
}
