package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSluggify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Holiday Photos", "holiday-photos"},
		{"punctuation", "Trip: Italy, 2019!", "trip-italy-2019"},
		{"multiple spaces", "Family   Album", "family-album"},
		{"leading trailing", "  Beach  ", "beach"},
		{"dots", "v1.2", "v1-2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sluggify(tt.input))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "1.5 MB", FormatBytes(1536*1024))
}
