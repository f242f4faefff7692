package indexer

import (
	"image"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is what the indexer extracts from an image before creating
// its database row
type Metadata struct {
	TakenAt     time.Time
	HasTakenAt  bool
	Width       int
	Height      int
	Orientation int
	Latitude    *float64
	Longitude   *float64
}

const exifTimeLayout = "2006:01:02 15:04:05"

// ExtractImageMetadata reads the EXIF block of an image. A file without
// usable EXIF still yields dimensions from the image header.
func ExtractImageMetadata(path string) (*Metadata, error) {
	meta := &Metadata{Orientation: 1}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err == nil {
		meta.TakenAt, meta.HasTakenAt = chooseTakenAt(
			exifTime(x, exif.DateTimeOriginal),
			exifTime(x, exif.DateTime),
			exifTime(x, exif.DateTimeDigitized),
		)
		if tag, err := x.Get(exif.Orientation); err == nil {
			if o, err := tag.Int(0); err == nil && o >= 1 && o <= 8 {
				meta.Orientation = o
			}
		}
		if lat, long, err := x.LatLong(); err == nil {
			meta.Latitude = &lat
			meta.Longitude = &long
		}
		if w := exifInt(x, exif.PixelXDimension); w > 0 {
			meta.Width = w
		}
		if h := exifInt(x, exif.PixelYDimension); h > 0 {
			meta.Height = h
		}
	}

	if meta.Width == 0 || meta.Height == 0 {
		if _, err := f.Seek(0, 0); err != nil {
			return meta, nil
		}
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			meta.Width = cfg.Width
			meta.Height = cfg.Height
		}
	}

	return meta, nil
}

// chooseTakenAt picks the capture time from the EXIF date fields. The
// original capture time wins; when only edit and digitization times are
// present the earlier of the two is the best guess.
func chooseTakenAt(original, datetime, digitized *time.Time) (time.Time, bool) {
	if original != nil {
		return *original, true
	}
	if datetime != nil && digitized != nil {
		if digitized.Before(*datetime) {
			return *digitized, true
		}
		return *datetime, true
	}
	if datetime != nil {
		return *datetime, true
	}
	if digitized != nil {
		return *digitized, true
	}
	return time.Time{}, false
}

func exifTime(x *exif.Exif, field exif.FieldName) *time.Time {
	tag, err := x.Get(field)
	if err != nil {
		return nil
	}
	value, err := tag.StringVal()
	if err != nil {
		return nil
	}
	t, err := time.ParseInLocation(exifTimeLayout, value, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

func exifInt(x *exif.Exif, field exif.FieldName) int {
	tag, err := x.Get(field)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}
