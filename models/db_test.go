package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// setupMockDB swaps the package database for a sqlmock and returns the
// mock plus a restore func for defer
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	originalDB := db
	db = mockDB
	return mock, func() {
		db = originalDB
		mockDB.Close()
	}
}

func TestExistsChecker(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT 1 FROM files WHERE id = \?`).
		WithArgs("2024-05-01_10-00-00_0000").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := ExistsChecker(`SELECT 1 FROM files WHERE id = ?`, "2024-05-01_10-00-00_0000")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRecords(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := CountRecords(`SELECT COUNT(*) FROM users`)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
