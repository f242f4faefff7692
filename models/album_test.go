package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func albumRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "parent_id", "name", "created_at", "updated_at"})
}

func TestCreateAlbum(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`INSERT INTO albums`).
		WillReturnResult(sqlmock.NewResult(4, 1))

	album, err := CreateAlbum(Album{Name: "Summer"})
	assert.NoError(t, err)
	assert.Equal(t, int64(4), album.ID)

	_, err = CreateAlbum(Album{})
	assert.EqualError(t, err, "album name cannot be empty")
}

func TestAddFileToAlbumRemovesFromAncestors(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	// album 3 is a child of 2, which is a child of 1
	parentOf3 := int64(2)
	mock.ExpectQuery(`SELECT (.+) FROM albums WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnRows(albumRows().AddRow(3, parentOf3, "Beach", 100, 100))
	mock.ExpectExec(`DELETE FROM album_files WHERE album_id = \? AND file_id = \?`).
		WithArgs(int64(2), "f1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM albums WHERE id = \?`).
		WithArgs(int64(2)).
		WillReturnRows(albumRows().AddRow(2, 1, "Summer", 100, 100))
	mock.ExpectExec(`DELETE FROM album_files WHERE album_id = \? AND file_id = \?`).
		WithArgs(int64(1), "f1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM albums WHERE id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(albumRows().AddRow(1, nil, "2024", 100, 100))
	mock.ExpectExec(`INSERT OR IGNORE INTO album_files`).
		WithArgs(int64(3), "f1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := AddFileToAlbum(3, "f1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFileToAlbumMissing(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM albums WHERE id = \?`).
		WithArgs(int64(99)).
		WillReturnRows(albumRows())

	err := AddFileToAlbum(99, "f1")
	assert.EqualError(t, err, "album not found")
}

func TestDeleteAlbumCascades(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM albums WHERE parent_id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(albumRows().AddRow(2, 1, "child", 100, 100))
	mock.ExpectQuery(`SELECT (.+) FROM albums WHERE parent_id = \?`).
		WithArgs(int64(2)).
		WillReturnRows(albumRows())
	mock.ExpectExec(`DELETE FROM album_files WHERE album_id = \?`).
		WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM albums WHERE id = \?`).
		WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM album_files WHERE album_id = \?`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM albums WHERE id = \?`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

	err := DeleteAlbum(1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
