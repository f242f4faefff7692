package faces

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"

	"github.com/arkdale/photon/indexer"
	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
)

var (
	detector  *Detector
	threshold = 0.5
	enabled   bool
)

// Initialize loads the cascade and hooks face detection into the scan
// pipeline. A missing cascade disables the feature with a warning rather
// than failing startup.
func Initialize(cascadePath string, distanceThreshold float64) {
	if distanceThreshold > 0 {
		threshold = distanceThreshold
	}

	d, err := NewDetector(cascadePath)
	if err != nil {
		log.Warnf("Face detection disabled, cascade not loadable: %s", err)
		return
	}
	detector = d
	enabled = true

	indexer.PostScanFunc = ScanRootFaces
	log.Info("Face detection enabled")
}

// Enabled reports whether face detection is active
func Enabled() bool {
	return enabled
}

// ScanRootFaces runs detection over every image of a root folder that
// has no face rows yet, then refreshes predictions
func ScanRootFaces(root models.RootFolder) {
	if !enabled {
		return
	}

	log.Infof("Running face detection for root folder '%s'", root.Name)

	files, err := models.GetFiles(models.FileFilter{
		FolderID:          root.FolderID,
		IncludeSubfolders: true,
		Type:              utils.MediaTypeImage,
	})
	if err != nil {
		log.Errorf("Failed to list files for face detection: %s", err)
		return
	}

	for _, file := range files {
		existing, err := models.GetFacesByFile(file.ID)
		if err != nil {
			log.Errorf("Failed to load faces for '%s': %s", file.ID, err)
			continue
		}
		if len(existing) > 0 {
			continue
		}

		folder, err := models.GetFolder(file.FolderID)
		if err != nil || folder == nil {
			continue
		}
		if err := DetectForFile(&file, filepath.Join(folder.Path, file.Name)); err != nil {
			log.Warnf("Face detection failed for '%s': %s", file.ID, err)
		}
	}

	if err := PredictAll(); err != nil {
		log.Errorf("Face prediction failed: %s", err)
	}
}

// DetectForFile detects faces in one image and stores them as unassigned
func DetectForFile(file *models.File, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	img, _, err := utils.DecodeImage(f)
	f.Close()
	if err != nil {
		return err
	}

	rotation := utils.OrientationAngle(file.Orientation)
	if rotation != 0 {
		img = utils.RotateImage(img, rotation)
	}

	detections, err := detector.Detect(img, rotation)
	if err != nil {
		return err
	}

	for _, det := range detections {
		descriptor, err := json.Marshal(det.Descriptor)
		if err != nil {
			return err
		}

		var thumb bytes.Buffer
		crop := utils.ScaleToFit(det.Face, 160, 200)
		if err := utils.EncodeJPEG(&thumb, crop, 85); err != nil {
			return err
		}

		_, err = models.CreateFace(models.Face{
			FileID:      file.ID,
			X:           det.X,
			Y:           det.Y,
			Width:       det.Width,
			Height:      det.Height,
			Rotation:    det.Rotation,
			Status:      models.FaceStatusUnassigned,
			Uncertainty: 1,
			Thumbnail:   thumb.Bytes(),
			Descriptor:  string(descriptor),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// PredictAll rebuilds the recognizer from confirmed faces and refreshes
// the predictions for all unassigned faces
func PredictAll() error {
	confirmed, err := models.GetConfirmedFaceDescriptors()
	if err != nil {
		return err
	}
	if len(confirmed) == 0 {
		return nil
	}

	samples := make([]Sample, 0, len(confirmed))
	for _, face := range confirmed {
		var descriptor []float64
		if err := json.Unmarshal([]byte(face.Descriptor), &descriptor); err != nil {
			continue
		}
		samples = append(samples, Sample{PersonID: *face.PersonID, Descriptor: descriptor})
	}
	if len(samples) == 0 {
		return nil
	}

	if err := models.ClearFacePredictions(); err != nil {
		return err
	}

	recognizer := NewRecognizer(samples, threshold)

	unassigned, err := models.GetFacesByStatus(models.FaceStatusUnassigned)
	if err != nil {
		return err
	}
	for _, face := range unassigned {
		if face.Descriptor == "" {
			continue
		}
		var descriptor []float64
		if err := json.Unmarshal([]byte(face.Descriptor), &descriptor); err != nil {
			continue
		}
		personID, uncertainty, ok := recognizer.Predict(descriptor)
		if !ok {
			continue
		}
		if err := models.SetFacePrediction(face.ID, personID, uncertainty); err != nil {
			return err
		}
	}
	return nil
}
