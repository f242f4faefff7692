package handlers

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arkdale/photon/filestore"
	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

var (
	// thumbStore caches generated renditions; set during Initialize
	thumbStore *filestore.ThumbnailStore

	mediaThumbHeight = 400
	mediaJPEGQuality = 75
)

// diskPath resolves the on-disk location of a file through its folder
func diskPath(file *models.File) (string, error) {
	folder, err := models.GetFolder(file.FolderID)
	if err != nil {
		return "", err
	}
	if folder == nil {
		return "", fmt.Errorf("folder %d not found for file %s", file.FolderID, file.ID)
	}
	return filepath.Join(folder.Path, file.Name), nil
}

// HandleMediaRequest serves a file's content. Videos and size=full requests
// stream straight from disk; everything else goes through the rendition
// cache and comes back rotated upright and scaled.
func HandleMediaRequest(c *fiber.Ctx) error {
	file, err := models.GetFile(c.Params("id"))
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "file not found")
	}

	path, err := diskPath(file)
	if err != nil {
		return sendInternalServerError(c, "failed to resolve file path", err)
	}

	if file.Type == utils.MediaTypeVideo || c.Query("size") == "full" {
		c.Set("Content-Type", utils.ContentTypeForExt(filepath.Ext(file.Name)))
		c.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Name))
		c.Set("Cache-Control", "public, max-age=86400")
		return c.SendFile(path)
	}

	width := c.QueryInt("w")
	height := c.QueryInt("h", mediaThumbHeight)
	quality := c.QueryInt("q", mediaJPEGQuality)
	format := strings.ToLower(c.Query("format", "jpg"))
	if format != "jpg" && format != "webp" {
		return sendBadRequestError(c, "unsupported rendition format")
	}
	if quality < 1 || quality > 100 {
		return sendBadRequestError(c, "quality must be 1-100")
	}

	data, err := renderImage(file, path, width, height, quality, format)
	if err != nil {
		return sendInternalServerError(c, "failed to render image", err)
	}

	c.Set("Content-Type", utils.ContentTypeForExt(format))
	c.Set("Cache-Control", "public, max-age=86400")
	return c.Send(data)
}

// renderImage produces a rotated, scaled rendition, using the thumbnail
// store as a write-through cache
func renderImage(file *models.File, path string, width, height, quality int, format string) ([]byte, error) {
	if thumbStore != nil {
		cached, err := thumbStore.GetThumb(file.ID, width, height, quality, format)
		if err != nil {
			log.Warnf("Thumbnail cache read failed for %s: %v", file.ID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	img, _, err := utils.OpenImage(path)
	if err != nil {
		return nil, err
	}

	if angle := utils.OrientationAngle(file.Orientation); angle != 0 {
		img = utils.RotateImage(img, angle)
	}

	bounds := img.Bounds()
	maxWidth, maxHeight := width, height
	if maxWidth <= 0 {
		maxWidth = bounds.Dx()
	}
	if maxHeight <= 0 {
		maxHeight = bounds.Dy()
	}
	img = utils.ScaleToFit(img, maxWidth, maxHeight)

	var buf bytes.Buffer
	if err := utils.EncodeImage(&buf, img, format, quality); err != nil {
		return nil, err
	}

	if thumbStore != nil {
		if err := thumbStore.PutThumb(file.ID, width, height, quality, format, buf.Bytes()); err != nil {
			log.Warnf("Thumbnail cache write failed for %s: %v", file.ID, err)
		}
	}
	return buf.Bytes(), nil
}
