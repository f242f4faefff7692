package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRootFolderValidate(t *testing.T) {
	valid := RootFolder{Name: "Family Photos", Path: "/mnt/photos", Cron: "0 3 * * *"}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, "family-photos", valid.Slug)

	relative := RootFolder{Name: "x", Path: "photos", Cron: "0 3 * * *"}
	assert.Error(t, relative.Validate())

	noCron := RootFolder{Name: "x", Path: "/photos"}
	assert.Error(t, noCron.Validate())
}

func TestCreateRootFolder(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT 1 FROM root_folders WHERE slug = \?`).
		WithArgs("family-photos").
		WillReturnRows(sqlmock.NewRows(nil))
	mock.ExpectExec(`INSERT INTO folders`).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec(`INSERT INTO root_folders`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	root, err := CreateRootFolder(RootFolder{Name: "Family Photos", Path: "/mnt/photos", Cron: "0 3 * * *"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), root.ID)
	assert.Equal(t, int64(10), root.FolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRootFolderNotFound(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM root_folders WHERE slug = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(nil))

	root, err := GetRootFolder("missing")
	assert.NoError(t, err)
	assert.Nil(t, root)
}
