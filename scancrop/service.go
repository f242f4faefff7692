package scancrop

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/arkdale/photon/indexer"
	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
)

// Options is the per-sheet crop state stored on a scan file
type Options struct {
	Rects  []Rect `json:"rects,omitempty"`
	Quads  []Quad `json:"quads,omitempty"`
	Margin float64 `json:"margin,omitempty"`
}

// SyncScanRoots mirrors every registered scan root directory into the
// scan folder and scan file tables
func SyncScanRoots() error {
	roots, err := models.GetScanRootFolders()
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := syncScanDir(root.ID, nil, root.Path); err != nil {
			log.Errorf("Failed to sync scan root '%s': %s", root.Name, err)
		}
	}
	return nil
}

func syncScanDir(rootID int64, parentID *int64, diskPath string) error {
	entries, err := os.ReadDir(diskPath)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	folders, err := models.GetScanFolders(rootID, parentID)
	if err != nil {
		return err
	}
	byName := make(map[string]models.ScanFolder, len(folders))
	for _, f := range folders {
		byName[f.Name] = f
	}

	var folderID int64
	if parentID != nil {
		folderID = *parentID
	}

	for _, entry := range entries {
		path := filepath.Join(diskPath, entry.Name())
		if entry.IsDir() {
			folder, ok := byName[entry.Name()]
			if !ok {
				created, err := models.CreateScanFolder(models.ScanFolder{
					RootID:   rootID,
					ParentID: parentID,
					Name:     entry.Name(),
					Path:     path,
				})
				if err != nil {
					return err
				}
				folder = *created
			}
			if err := syncScanDir(rootID, &folder.ID, path); err != nil {
				return err
			}
			continue
		}

		if !utils.IsImageFile(entry.Name()) || folderID == 0 {
			continue
		}
		existing, err := models.GetScanFileByName(folderID, entry.Name())
		if err != nil {
			return err
		}
		if existing == nil {
			if _, err := models.CreateScanFile(models.ScanFile{
				FolderID: folderID,
				Name:     entry.Name(),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// DetectSheet refines the rough crop regions of a scan file into print
// outlines and stores them back on its options
func DetectSheet(scanFile *models.ScanFile) error {
	var opts Options
	if err := json.Unmarshal([]byte(scanFile.Options), &opts); err != nil {
		return err
	}
	if len(opts.Rects) == 0 {
		return errors.New("no crop regions defined")
	}

	path, err := sheetPath(scanFile)
	if err != nil {
		return err
	}
	img, _, err := utils.OpenImage(path)
	if err != nil {
		return err
	}

	opts.Quads = opts.Quads[:0]
	for _, rect := range opts.Rects {
		quad, err := DetectPrint(img, rect)
		if err != nil {
			// Fall back to the rough rectangle when refinement fails
			log.Warnf("Edge refinement failed for '%s': %s", scanFile.Name, err)
			quad = Quad{
				TopLeft:     Point{float64(rect.X), float64(rect.Y)},
				TopRight:    Point{float64(rect.X + rect.Width), float64(rect.Y)},
				BottomRight: Point{float64(rect.X + rect.Width), float64(rect.Y + rect.Height)},
				BottomLeft:  Point{float64(rect.X), float64(rect.Y + rect.Height)},
			}
		}
		opts.Quads = append(opts.Quads, quad)
	}

	encoded, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	scanFile.Options = string(encoded)
	return models.UpdateScanFile(scanFile)
}

// ConfirmCrop extracts the confirmed prints of a sheet into the output
// directory, ingests them, and marks the sheet done
func ConfirmCrop(scanFile *models.ScanFile, outputDir string, outputFolderID int64, quality int) error {
	var opts Options
	if err := json.Unmarshal([]byte(scanFile.Options), &opts); err != nil {
		return err
	}
	if len(opts.Quads) == 0 {
		return errors.New("no confirmed print outlines")
	}
	margin := opts.Margin
	if margin <= 0 {
		margin = 0.005
	}

	path, err := sheetPath(scanFile)
	if err != nil {
		return err
	}
	img, _, err := utils.OpenImage(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	base := strings.TrimSuffix(scanFile.Name, filepath.Ext(scanFile.Name))
	for i, quad := range opts.Quads {
		extracted := ExtractQuad(img, quad, margin)

		outPath := filepath.Join(outputDir, fmt.Sprintf("%s_print%02d.jpg", base, i+1))
		out, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := utils.EncodeJPEG(out, extracted, quality); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}

		if _, err := indexer.IngestFile(outPath, outputFolderID); err != nil {
			return err
		}
	}

	scanFile.Status = models.ScanFileStatusConfirmed
	return models.UpdateScanFile(scanFile)
}

func sheetPath(scanFile *models.ScanFile) (string, error) {
	folder, err := models.GetScanFolder(scanFile.FolderID)
	if err != nil {
		return "", err
	}
	if folder == nil {
		return "", errors.New("scan folder not found")
	}
	return filepath.Join(folder.Path, scanFile.Name), nil
}
