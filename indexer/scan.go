package indexer

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
)

type scanItem struct {
	path     string
	folderID int64
}

// runScanJob walks the root folder, mirrors its directory tree into the
// database, ingests new media with a worker pool, prunes rows whose
// backing files are gone, and refreshes the cached folder properties.
func (idx *Indexer) runScanJob() bool {
	// LoadOrStore claims the slug atomically, so two overlapping cron
	// triggers cannot both start a scan
	if _, loaded := scanRunning.LoadOrStore(idx.Root.Slug, true); loaded {
		log.Infof("Scan for root folder '%s' already running, skipping run", idx.Root.Name)
		return false
	}

	defer func() {
		scanRunning.Delete(idx.Root.Slug)
		idx.JobRunning = false
		if NotifyScanFinished != nil {
			NotifyScanFinished(idx.Root.Slug)
		}
	}()

	idx.JobRunning = true
	if NotifyScanStarted != nil {
		NotifyScanStarted(idx.Root.Slug, idx.Root.Name)
	}

	log.Debugf("Starting scan for root folder '%s'", idx.Root.Name)
	start := time.Now()

	if _, err := os.Stat(idx.Root.Path); err != nil {
		log.Errorf("Root folder path '%s' not accessible: %s", idx.Root.Path, err)
		return false
	}

	items, err := idx.syncFolder(idx.Root.Path, idx.Root.FolderID)
	if err != nil {
		log.Errorf("Error scanning root folder '%s': %s", idx.Root.Name, err)
		return false
	}

	idx.ingestAll(items)

	if err := pruneFolder(idx.Root.FolderID, idx.Root.Path); err != nil {
		log.Errorf("Error pruning root folder '%s': %s", idx.Root.Name, err)
	}

	if _, _, err := refreshFolderProps(idx.Root.FolderID, idx.Root.Path); err != nil {
		log.Errorf("Error refreshing folder properties for '%s': %s", idx.Root.Name, err)
	}

	log.Debugf("Scan for root folder '%s' completed in %.1fs (%d media paths)",
		idx.Root.Name, time.Since(start).Seconds(), len(items))

	if PostScanFunc != nil {
		go PostScanFunc(idx.Root)
	}

	return true
}

// syncFolder mirrors one directory level into the folder tree and
// collects the media files underneath it
func (idx *Indexer) syncFolder(diskPath string, folderID int64) ([]scanItem, error) {
	entries, err := os.ReadDir(diskPath)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var items []scanItem
	for _, entry := range entries {
		select {
		case <-idx.stop:
			return items, nil
		default:
		}

		path := filepath.Join(diskPath, entry.Name())
		if entry.IsDir() {
			child, err := models.GetFolderByParentAndName(folderID, entry.Name())
			if err != nil {
				return nil, err
			}
			if child == nil {
				child, err = models.CreateFolder(models.Folder{
					ParentID: &folderID,
					Name:     entry.Name(),
					Path:     path,
				})
				if err != nil {
					return nil, err
				}
			}
			childItems, err := idx.syncFolder(path, child.ID)
			if err != nil {
				return nil, err
			}
			items = append(items, childItems...)
			continue
		}

		if utils.MediaType(path) != utils.MediaTypeOther {
			items = append(items, scanItem{path: path, folderID: folderID})
		}
	}
	return items, nil
}

// ingestAll runs the collected media paths through a worker pool
func (idx *Indexer) ingestAll(items []scanItem) {
	if len(items) == 0 {
		return
	}

	jobs := make(chan scanItem, len(items))
	results := make(chan error, len(items))

	for w := 0; w < workerCount; w++ {
		go func() {
			for item := range jobs {
				select {
				case <-idx.stop:
					results <- nil
					continue
				default:
				}
				_, err := IngestFile(item.path, item.folderID)
				results <- err
			}
		}()
	}

	for _, item := range items {
		jobs <- item
	}
	close(jobs)

	for range items {
		if err := <-results; err != nil {
			log.Errorf("Error ingesting media: %s", err)
		}
	}
}

// pruneFolder removes database rows whose backing files or directories
// no longer exist on disk
func pruneFolder(folderID int64, diskPath string) error {
	children, err := models.GetChildFolders(folderID)
	if err != nil {
		return err
	}
	for _, child := range children {
		childPath := filepath.Join(diskPath, child.Name)
		if _, err := os.Stat(childPath); os.IsNotExist(err) {
			log.Infof("Folder '%s' missing on disk, removing its tree", childPath)
			if err := models.DeleteFolderTree(child.ID); err != nil {
				return err
			}
			continue
		}
		if err := pruneFolder(child.ID, childPath); err != nil {
			return err
		}
	}

	files, err := models.GetFilesByFolder(folderID)
	if err != nil {
		return err
	}
	for _, file := range files {
		filePath := filepath.Join(diskPath, file.Name)
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			log.Infof("File '%s' missing on disk, removing row '%s'", filePath, file.ID)
			if err := models.DeleteFile(file.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// refreshFolderProps recomputes a folder's cached path, file count and
// total size bottom-up
func refreshFolderProps(folderID int64, diskPath string) (int64, int64, error) {
	count, total, err := models.CountFilesInFolder(folderID)
	if err != nil {
		return 0, 0, err
	}

	children, err := models.GetChildFolders(folderID)
	if err != nil {
		return 0, 0, err
	}
	for _, child := range children {
		childCount, childTotal, err := refreshFolderProps(child.ID, filepath.Join(diskPath, child.Name))
		if err != nil {
			return 0, 0, err
		}
		count += childCount
		total += childTotal
	}

	if err := models.UpdateFolderCaches(folderID, diskPath, count, total); err != nil {
		return 0, 0, err
	}
	return count, total, nil
}
