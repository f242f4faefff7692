package indexer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkdale/photon/models"
)

func writeMediaFile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("media bytes"), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestRunScanJobIngestPruneAndMove(t *testing.T) {
	require.NoError(t, models.Initialize(t.TempDir()))
	defer models.Close()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "holiday"), 0755))

	// Same mtime second for both files, the ids must still come out distinct
	mtime := time.Date(2024, 8, 1, 9, 30, 0, 0, time.Local)
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), mtime)
	writeMediaFile(t, filepath.Join(dir, "holiday", "b.jpg"), mtime)

	root, err := models.CreateRootFolder(models.RootFolder{
		Name: "Scan Test",
		Path: dir,
		Cron: "0 3 * * *",
	})
	require.NoError(t, err)

	idx := NewIndexer(*root)
	require.True(t, idx.RunScanJob())

	rootFiles, err := models.GetFilesByFolder(root.FolderID)
	require.NoError(t, err)
	require.Len(t, rootFiles, 1)

	holiday, err := models.GetFolderByParentAndName(root.FolderID, "holiday")
	require.NoError(t, err)
	require.NotNil(t, holiday)

	subFiles, err := models.GetFilesByFolder(holiday.ID)
	require.NoError(t, err)
	require.Len(t, subFiles, 1)
	assert.NotEqual(t, rootFiles[0].ID, subFiles[0].ID)

	// Files were renamed on disk to their generated ids
	_, err = os.Stat(filepath.Join(dir, rootFiles[0].Name))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "holiday", subFiles[0].Name))
	assert.NoError(t, err)
	_, err = models.TakenAtFromID(rootFiles[0].ID)
	assert.NoError(t, err)

	rootFolder, err := models.GetFolder(root.FolderID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rootFolder.FileCount)

	// Move one file up to the root on disk, remove the other entirely
	moved := subFiles[0]
	require.NoError(t, os.Rename(
		filepath.Join(dir, "holiday", moved.Name),
		filepath.Join(dir, moved.Name)))
	require.NoError(t, os.Remove(filepath.Join(dir, rootFiles[0].Name)))

	require.True(t, idx.RunScanJob())

	gone, err := models.GetFile(rootFiles[0].ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "row without a backing file must be pruned")

	kept, err := models.GetFile(moved.ID)
	require.NoError(t, err)
	require.NotNil(t, kept, "moved file must keep its row")
	assert.Equal(t, root.FolderID, kept.FolderID)

	// The empty directory still exists on disk, its folder row stays
	stillThere, err := models.GetFolderByParentAndName(root.FolderID, "holiday")
	require.NoError(t, err)
	assert.NotNil(t, stillThere)

	rootFolder, err = models.GetFolder(root.FolderID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rootFolder.FileCount)
}

func TestRunScanJobAlreadyRunning(t *testing.T) {
	idx := NewIndexer(models.RootFolder{Slug: "busy", Name: "Busy"})

	_, loaded := scanRunning.LoadOrStore("busy", true)
	require.False(t, loaded)
	defer scanRunning.Delete("busy")

	assert.False(t, idx.RunScanJob())
	assert.True(t, ScanRunning("busy"))
}
