package models

import (
	"database/sql"
	"errors"
	"math"
	"time"
)

// GeoTag is a raw coordinate extracted from a file's metadata
type GeoTag struct {
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedAt int64   `json:"created_at"`
}

// GeoTagArea is a named circular region used to group tagged files on
// the map and let users label places
type GeoTagArea struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

// Validate checks that the area's coordinates are sane
func (a *GeoTagArea) Validate() error {
	if a.Name == "" {
		return errors.New("area name cannot be empty")
	}
	if a.Latitude < -90 || a.Latitude > 90 {
		return errors.New("latitude out of range")
	}
	if a.Longitude < -180 || a.Longitude > 180 {
		return errors.New("longitude out of range")
	}
	if a.Radius <= 0 {
		return errors.New("radius must be positive")
	}
	return nil
}

// CreateGeoTag stores a coordinate and returns its id
func CreateGeoTag(latitude, longitude float64) (*GeoTag, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, errors.New("coordinates out of range")
	}

	tag := GeoTag{Latitude: latitude, Longitude: longitude, CreatedAt: time.Now().Unix()}

	result, err := db.Exec(`INSERT INTO geotags (latitude, longitude, created_at) VALUES (?, ?, ?)`,
		tag.Latitude, tag.Longitude, tag.CreatedAt)
	if err != nil {
		return nil, err
	}
	tag.ID, _ = result.LastInsertId()
	return &tag, nil
}

// GetGeoTag retrieves a single GeoTag by id
func GetGeoTag(id int64) (*GeoTag, error) {
	row := db.QueryRow(`SELECT id, latitude, longitude, created_at FROM geotags WHERE id = ?`, id)
	var tag GeoTag
	err := row.Scan(&tag.ID, &tag.Latitude, &tag.Longitude, &tag.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteGeoTag removes a GeoTag from the database
func DeleteGeoTag(id int64) error {
	return DeleteRecord(`DELETE FROM geotags WHERE id = ?`, id)
}

// CreateGeoTagArea adds a new GeoTagArea to the database
func CreateGeoTagArea(area GeoTagArea) (*GeoTagArea, error) {
	if err := area.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	area.CreatedAt = now
	area.UpdatedAt = now

	result, err := db.Exec(`INSERT INTO geotag_areas (name, address, latitude, longitude, radius, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		area.Name, area.Address, area.Latitude, area.Longitude, area.Radius, area.CreatedAt, area.UpdatedAt)
	if err != nil {
		return nil, err
	}
	area.ID, _ = result.LastInsertId()
	return &area, nil
}

// GetGeoTagArea retrieves a single GeoTagArea by id
func GetGeoTagArea(id int64) (*GeoTagArea, error) {
	row := db.QueryRow(`SELECT id, name, address, latitude, longitude, radius, created_at, updated_at
	FROM geotag_areas WHERE id = ?`, id)
	var area GeoTagArea
	err := row.Scan(&area.ID, &area.Name, &area.Address, &area.Latitude, &area.Longitude,
		&area.Radius, &area.CreatedAt, &area.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// GetGeoTagAreas retrieves all named areas
func GetGeoTagAreas() ([]GeoTagArea, error) {
	rows, err := db.Query(`SELECT id, name, address, latitude, longitude, radius, created_at, updated_at
	FROM geotag_areas ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []GeoTagArea
	for rows.Next() {
		var area GeoTagArea
		if err := rows.Scan(&area.ID, &area.Name, &area.Address, &area.Latitude, &area.Longitude,
			&area.Radius, &area.CreatedAt, &area.UpdatedAt); err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	return areas, rows.Err()
}

// UpdateGeoTagArea modifies an existing GeoTagArea
func UpdateGeoTagArea(area *GeoTagArea) error {
	if err := area.Validate(); err != nil {
		return err
	}
	area.UpdatedAt = time.Now().Unix()
	_, err := db.Exec(`UPDATE geotag_areas SET name = ?, address = ?, latitude = ?, longitude = ?, radius = ?, updated_at = ?
	WHERE id = ?`,
		area.Name, area.Address, area.Latitude, area.Longitude, area.Radius, area.UpdatedAt, area.ID)
	return err
}

// DeleteGeoTagArea removes a GeoTagArea from the database
func DeleteGeoTagArea(id int64) error {
	return DeleteRecord(`DELETE FROM geotag_areas WHERE id = ?`, id)
}

// Contains reports whether a coordinate falls within the area. Radius is
// in meters; distances use the equirectangular approximation, which is
// accurate enough at area scale.
func (a *GeoTagArea) Contains(latitude, longitude float64) bool {
	const earthRadius = 6371000.0
	latRad := (a.Latitude + latitude) / 2 * math.Pi / 180
	dx := (longitude - a.Longitude) * math.Cos(latRad) * math.Pi / 180 * earthRadius
	dy := (latitude - a.Latitude) * math.Pi / 180 * earthRadius
	return math.Hypot(dx, dy) <= a.Radius
}

// GetFileIDsInArea lists the non-deleted files whose geotag falls inside
// the area
func GetFileIDsInArea(area *GeoTagArea) ([]string, error) {
	rows, err := db.Query(`
	SELECT f.id, g.latitude, g.longitude
	FROM files f
	JOIN geotags g ON g.id = f.geotag_id
	WHERE f.deleted = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var lat, lon float64
		if err := rows.Scan(&id, &lat, &lon); err != nil {
			return nil, err
		}
		if area.Contains(lat, lon) {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}
