package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaType(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"holiday.JPG", MediaTypeImage},
		{"scan.tiff", MediaTypeImage},
		{"clip.mp4", MediaTypeVideo},
		{"old.MOV", MediaTypeVideo},
		{"notes.txt", MediaTypeOther},
		{"noext", MediaTypeOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MediaType(tt.name), tt.name)
	}
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a.webp"))
	assert.False(t, IsImageFile("a.mp4"))
}

func TestContentTypeForExt(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForExt(".jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeForExt("jpeg"))
	assert.Equal(t, "video/mp4", ContentTypeForExt(".m4v"))
	assert.Equal(t, "application/octet-stream", ContentTypeForExt(".xyz"))
}
