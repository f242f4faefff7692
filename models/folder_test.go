package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCreateFolder(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`INSERT INTO folders`).
		WillReturnResult(sqlmock.NewResult(5, 1))

	parent := int64(2)
	folder, err := CreateFolder(Folder{ParentID: &parent, Name: "2024", Path: "/photos/2024"})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), folder.ID)
	assert.Equal(t, int64(2), *folder.ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFolderEmptyName(t *testing.T) {
	_, restore := setupMockDB(t)
	defer restore()

	_, err := CreateFolder(Folder{Path: "/photos"})
	assert.EqualError(t, err, "folder name cannot be empty")
}

func TestGetFolderNotFound(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE id = \?`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(nil))

	folder, err := GetFolder(99)
	assert.NoError(t, err)
	assert.Nil(t, folder)
}

func folderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "parent_id", "name", "path", "file_count", "total_length", "created_at", "updated_at"})
}

func TestGetChildFolders(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE parent_id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(folderRows().
			AddRow(2, 1, "april", "/photos/april", 10, 1024, 100, 100).
			AddRow(3, 1, "may", "/photos/may", 4, 512, 100, 100))

	folders, err := GetChildFolders(1)
	assert.NoError(t, err)
	assert.Len(t, folders, 2)
	assert.Equal(t, "april", folders[0].Name)
	assert.Equal(t, int64(1), *folders[0].ParentID)
}

func TestSubfolderIDs(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE parent_id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(folderRows().AddRow(2, 1, "a", "/p/a", 0, 0, 0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE parent_id = \?`).
		WithArgs(int64(2)).
		WillReturnRows(folderRows().AddRow(4, 2, "b", "/p/a/b", 0, 0, 0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE parent_id = \?`).
		WithArgs(int64(4)).
		WillReturnRows(folderRows())

	ids, err := SubfolderIDs(1)
	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids)
}

func TestDeleteFolderTree(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE parent_id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(folderRows().AddRow(2, 1, "a", "/p/a", 0, 0, 0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE parent_id = \?`).
		WithArgs(int64(2)).
		WillReturnRows(folderRows())
	mock.ExpectExec(`DELETE FROM files WHERE folder_id = \?`).
		WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM folders WHERE id = \?`).
		WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM files WHERE folder_id = \?`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM folders WHERE id = \?`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

	err := DeleteFolderTree(1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFolderCaches(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`UPDATE folders`).
		WithArgs("/photos/2024", int64(42), int64(987654), sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := UpdateFolderCaches(5, "/photos/2024", 42, 987654)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
