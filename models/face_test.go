package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestFaceValidate(t *testing.T) {
	valid := Face{FileID: "f1", Width: 80, Height: 80, Status: FaceStatusUnassigned}
	assert.NoError(t, valid.Validate())

	noFile := Face{Width: 80, Height: 80}
	assert.EqualError(t, noFile.Validate(), "face file cannot be empty")

	empty := Face{FileID: "f1"}
	assert.EqualError(t, empty.Validate(), "face rectangle cannot be empty")

	badStatus := Face{FileID: "f1", Width: 1, Height: 1, Status: 9}
	assert.EqualError(t, badStatus.Validate(), "invalid face status")
}

func TestCreateFace(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`INSERT INTO faces`).
		WillReturnResult(sqlmock.NewResult(7, 1))

	face, err := CreateFace(Face{
		FileID:      "2024-05-01_10-00-00_0000",
		X:           10,
		Y:           20,
		Width:       120,
		Height:      120,
		Status:      FaceStatusUnassigned,
		Uncertainty: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), face.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignFaceToPerson(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`UPDATE faces SET person_id = \?, status = \?, uncertainty = 0, updated_at = \? WHERE id = \?`).
		WithArgs(int64(3), FaceStatusConfirmedUser, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := AssignFaceToPerson(7, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFaceStatusDetaches(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`UPDATE faces SET person_id = NULL, status = \?, updated_at = \? WHERE id = \?`).
		WithArgs(FaceStatusIgnored, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := SetFaceStatus(7, FaceStatusIgnored)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFaceStatusInvalid(t *testing.T) {
	_, restore := setupMockDB(t)
	defer restore()

	err := SetFaceStatus(7, 42)
	assert.EqualError(t, err, "invalid face status")
}

func TestClearFacePredictions(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`UPDATE faces SET person_id = NULL, status = \?, uncertainty = 1, updated_at = \? WHERE status = \?`).
		WithArgs(FaceStatusUnassigned, sqlmock.AnyArg(), FaceStatusPredicted).
		WillReturnResult(sqlmock.NewResult(0, 4))

	err := ClearFacePredictions()
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func faceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "file_id", "person_id", "x", "y", "width", "height",
		"rotation", "status", "uncertainty", "thumbnail", "descriptor", "created_at", "updated_at"})
}

func TestGetFacesByFile(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM faces WHERE file_id = \?`).
		WithArgs("f1", FaceStatusRemoved).
		WillReturnRows(faceRows().
			AddRow(1, "f1", 2, 10, 10, 80, 80, 0, FaceStatusConfirmedUser, 0.0, []byte{}, "", 100, 100).
			AddRow(2, "f1", nil, 90, 10, 60, 60, 0, FaceStatusUnassigned, 1.0, []byte{}, "", 100, 100))

	faces, err := GetFacesByFile("f1")
	assert.NoError(t, err)
	assert.Len(t, faces, 2)
	assert.Equal(t, int64(2), *faces[0].PersonID)
	assert.Nil(t, faces[1].PersonID)
}
