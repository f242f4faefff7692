package utils

import (
	"path/filepath"
	"strings"
)

// Media types stored on file records.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeOther = "other"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true, ".3gp": true, ".mpg": true,
	".mpeg": true, ".wmv": true,
}

// MediaType classifies a filename by its extension.
func MediaType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExtensions[ext]:
		return MediaTypeImage
	case videoExtensions[ext]:
		return MediaTypeVideo
	default:
		return MediaTypeOther
	}
}

// IsImageFile reports whether the filename has a known image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsVideoFile reports whether the filename has a known video extension.
func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// ContentTypeForExt maps a file extension to a MIME type for media serving.
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "mp4", "m4v":
		return "video/mp4"
	case "mov":
		return "video/quicktime"
	case "avi":
		return "video/x-msvideo"
	case "mkv":
		return "video/x-matroska"
	case "webm":
		return "video/webm"
	case "mpg", "mpeg":
		return "video/mpeg"
	case "wmv":
		return "video/x-ms-wmv"
	case "3gp":
		return "video/3gpp"
	default:
		return "application/octet-stream"
	}
}
