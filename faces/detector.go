package faces

import (
	"errors"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/arkdale/photon/utils"
)

// Detection is one face found in an image, in the coordinates of the
// image as displayed
type Detection struct {
	X          int
	Y          int
	Width      int
	Height     int
	Quality    float32
	Rotation   int
	Face       image.Image
	Descriptor []float64
}

// Detector wraps a pigo classifier
type Detector struct {
	classifier *pigo.Pigo
	minSize    int
	maxSize    int
}

// Pigo boxes hug the face tightly; widen them so crops include hair and
// chin, matching what users expect a face thumbnail to look like
const (
	boxExpandX = 1.3
	boxExpandY = 1.625
)

// NewDetector loads a pigo cascade from disk
func NewDetector(cascadePath string) (*Detector, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, err
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, err
	}
	return &Detector{
		classifier: classifier,
		minSize:    60,
		maxSize:    2000,
	}, nil
}

// Detect finds faces in an image. The rotation is the display angle the
// image was corrected by before detection and is carried through to the
// stored face.
func (d *Detector) Detect(img image.Image, rotation int) ([]Detection, error) {
	if d.classifier == nil {
		return nil, errors.New("detector not initialized")
	}

	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	params := pigo.CascadeParams{
		MinSize:     d.minSize,
		MaxSize:     d.maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	var detections []Detection
	for _, det := range dets {
		if det.Q < 5.0 {
			continue
		}

		w := int(float64(det.Scale) * boxExpandX)
		h := int(float64(det.Scale) * boxExpandY)
		x := det.Col - w/2
		y := det.Row - h/2

		crop := utils.CropImage(img, image.Rect(x, y, x+w, y+h))
		if crop.Bounds().Dx() == 0 || crop.Bounds().Dy() == 0 {
			continue
		}

		detections = append(detections, Detection{
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			Quality:    det.Q,
			Rotation:   rotation,
			Face:       crop,
			Descriptor: Describe(crop),
		})
	}
	return detections, nil
}
