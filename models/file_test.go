package models

import (
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		wantErr string
	}{
		{"valid", File{ID: "2024-05-01_10-00-00_0000", Name: "a.jpg", FolderID: 1}, ""},
		{"missing id", File{Name: "a.jpg", FolderID: 1}, "file id cannot be empty"},
		{"missing name", File{ID: "x", FolderID: 1}, "file name cannot be empty"},
		{"missing folder", File{ID: "x", Name: "a.jpg"}, "file folder cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.file.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, "{}", tt.file.Metadata)
				assert.Equal(t, 1, tt.file.Orientation)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateFileID(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	takenAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT id FROM files WHERE id LIKE \?`).
		WithArgs("2024-05-01_10-00-00_%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	id, err := GenerateFileID(takenAt)
	assert.NoError(t, err)
	assert.Equal(t, "2024-05-01_10-00-00_0000", id)
}

func TestGenerateFileIDDisambiguates(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	takenAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT id FROM files WHERE id LIKE \?`).
		WithArgs("2024-05-01_10-00-00_%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow("2024-05-01_10-00-00_0000").
			AddRow("2024-05-01_10-00-00_000a"))

	id, err := GenerateFileID(takenAt)
	assert.NoError(t, err)
	assert.Equal(t, "2024-05-01_10-00-00_000b", id)
}

func TestTakenAtFromID(t *testing.T) {
	takenAt, err := TakenAtFromID("2024-05-01_10-30-45_0003")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 45, 0, time.Local), takenAt)

	_, err = TakenAtFromID("garbage")
	assert.Error(t, err)
}

func TestGetFileNotFound(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM files WHERE id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(nil))

	file, err := GetFile("missing")
	assert.NoError(t, err)
	assert.Nil(t, file)
}

func TestCreateFile(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT 1 FROM files WHERE id = \?`).
		WithArgs("2024-05-01_10-00-00_0000").
		WillReturnRows(sqlmock.NewRows(nil))

	mock.ExpectExec(`INSERT INTO files`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	file, err := CreateFile(File{
		ID:       "2024-05-01_10-00-00_0000",
		Name:     "holiday.jpg",
		FolderID: 3,
		Type:     "image",
		Format:   "jpg",
		Length:   2048,
	})
	assert.NoError(t, err)
	assert.Equal(t, "2024-05-01_10-00-00_0000", file.ID)
	assert.NotZero(t, file.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFileDuplicate(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT 1 FROM files WHERE id = \?`).
		WithArgs("2024-05-01_10-00-00_0000").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	_, err := CreateFile(File{ID: "2024-05-01_10-00-00_0000", Name: "a.jpg", FolderID: 1})
	assert.EqualError(t, err, "file already exists")
}

func TestSetFileStarred(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`UPDATE files SET starred = \?, updated_at = \? WHERE id = \?`).
		WithArgs(true, sqlmock.AnyArg(), "2024-05-01_10-00-00_0000").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := SetFileStarred("2024-05-01_10-00-00_0000", true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteFileCascades(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`DELETE FROM faces WHERE file_id = \?`).
		WithArgs("f1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM album_files WHERE file_id = \?`).
		WithArgs("f1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM files WHERE id = \?`).
		WithArgs("f1").WillReturnResult(sqlmock.NewResult(0, 1))

	err := DeleteFile("f1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountFilesInFolder(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(length\), 0\) FROM files`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "total"}).AddRow(12, 34567))

	count, total, err := CountFilesInFolder(7)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.Equal(t, int64(34567), total)
}

func TestCreateFileFromCaptureConcurrent(t *testing.T) {
	require.NoError(t, Initialize(t.TempDir()))
	defer Close()

	folder, err := CreateFolder(Folder{Name: "burst"})
	require.NoError(t, err)

	takenAt := time.Date(2024, 7, 4, 12, 0, 0, 0, time.Local)
	const workers = 16

	ids := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			file, err := CreateFileFromCapture(File{
				FolderID: folder.ID,
				Type:     "image",
				Format:   "jpg",
				Length:   1,
			}, takenAt, ".jpg")
			assert.NoError(t, err)
			if file != nil {
				ids <- file.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %s handed out twice", id)
		seen[id] = true

		parsed, err := TakenAtFromID(id)
		assert.NoError(t, err)
		assert.Equal(t, takenAt.Unix(), parsed.Unix())
	}
	assert.Len(t, seen, workers)
}
