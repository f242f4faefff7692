package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestGeoTagAreaValidate(t *testing.T) {
	valid := GeoTagArea{Name: "Home", Latitude: 55.6, Longitude: 12.5, Radius: 200}
	assert.NoError(t, valid.Validate())

	badLat := GeoTagArea{Name: "x", Latitude: 91, Longitude: 0, Radius: 1}
	assert.EqualError(t, badLat.Validate(), "latitude out of range")

	badRadius := GeoTagArea{Name: "x", Latitude: 0, Longitude: 0, Radius: 0}
	assert.EqualError(t, badRadius.Validate(), "radius must be positive")
}

func TestGeoTagAreaContains(t *testing.T) {
	area := GeoTagArea{Name: "Home", Latitude: 55.676, Longitude: 12.568, Radius: 500}

	assert.True(t, area.Contains(55.676, 12.568))
	// ~300m north
	assert.True(t, area.Contains(55.6787, 12.568))
	// ~5km east
	assert.False(t, area.Contains(55.676, 12.647))
}

func TestCreateGeoTag(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`INSERT INTO geotags`).
		WithArgs(55.676, 12.568, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))

	tag, err := CreateGeoTag(55.676, 12.568)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), tag.ID)

	_, err = CreateGeoTag(120, 0)
	assert.EqualError(t, err, "coordinates out of range")
}

func TestGetFileIDsInArea(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT f.id, g.latitude, g.longitude`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "latitude", "longitude"}).
			AddRow("near", 55.676, 12.568).
			AddRow("far", 54.0, 10.0))

	area := GeoTagArea{Name: "Home", Latitude: 55.676, Longitude: 12.568, Radius: 500}
	ids, err := GetFileIDsInArea(&area)
	assert.NoError(t, err)
	assert.Equal(t, []string{"near"}, ids)
}
