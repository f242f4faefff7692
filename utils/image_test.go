package utils

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return img
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{"landscape shrinks by width", 400, 200, 100, 100, 100, 50},
		{"portrait shrinks by height", 200, 400, 100, 100, 50, 100},
		{"already fits", 80, 60, 100, 100, 80, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ScaleToFit(testImage(tt.w, tt.h), tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}

func TestOrientationAngle(t *testing.T) {
	assert.Equal(t, 0, OrientationAngle(1))
	assert.Equal(t, 180, OrientationAngle(3))
	assert.Equal(t, 270, OrientationAngle(6))
	assert.Equal(t, 90, OrientationAngle(8))
	assert.Equal(t, 0, OrientationAngle(0))
}

func TestRotateImageDimensions(t *testing.T) {
	img := testImage(40, 20)

	assert.Equal(t, img, RotateImage(img, 0))
	assert.Equal(t, img, RotateImage(img, 360))

	r90 := RotateImage(img, 90)
	assert.Equal(t, 20, r90.Bounds().Dx())
	assert.Equal(t, 40, r90.Bounds().Dy())

	r180 := RotateImage(img, 180)
	assert.Equal(t, 40, r180.Bounds().Dx())
	assert.Equal(t, 20, r180.Bounds().Dy())
}

func TestRotateImagePixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img.Set(0, 0, red)
	img.Set(1, 0, blue)

	// Counter-clockwise: the right-hand pixel ends up at the top
	r90 := RotateImage(img, 90).(*image.RGBA)
	assert.Equal(t, blue, r90.RGBAAt(0, 0))
	assert.Equal(t, red, r90.RGBAAt(0, 1))

	r180 := RotateImage(img, 180).(*image.RGBA)
	assert.Equal(t, blue, r180.RGBAAt(0, 0))
	assert.Equal(t, red, r180.RGBAAt(1, 0))
}

func TestCropImage(t *testing.T) {
	img := testImage(10, 10)
	out := CropImage(img, image.Rect(2, 2, 6, 8))
	assert.Equal(t, 4, out.Bounds().Dx())
	assert.Equal(t, 6, out.Bounds().Dy())

	// Out-of-bounds rects are clamped
	clamped := CropImage(img, image.Rect(8, 8, 20, 20))
	assert.Equal(t, 2, clamped.Bounds().Dx())
	assert.Equal(t, 2, clamped.Bounds().Dy())
}

func TestEncodeDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, EncodeJPEG(&buf, testImage(16, 16), 75))

	img, format, err := DecodeImage(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestGrayscale(t *testing.T) {
	gray := Grayscale(testImage(8, 8))
	assert.Equal(t, 8, gray.Bounds().Dx())
	assert.Equal(t, 8, gray.Bounds().Dy())
}
