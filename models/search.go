package models

import (
	"strings"

	"github.com/arkdale/photon/utils"
)

// SearchFiles matches a free text query against file names, notes,
// folder names, album names, people names and geotag area names and
// addresses. Files hit by more of those sources rank first.
func SearchFiles(query string) ([]File, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	pattern := "%" + query + "%"

	sources := []struct {
		query string
	}{
		{`SELECT id FROM files WHERE deleted = 0 AND name LIKE ?`},
		{`SELECT id FROM files WHERE deleted = 0 AND notes LIKE ?`},
		{`SELECT f.id FROM files f JOIN folders d ON d.id = f.folder_id WHERE f.deleted = 0 AND d.name LIKE ?`},
		{`SELECT f.id FROM files f JOIN album_files af ON af.file_id = f.id JOIN albums a ON a.id = af.album_id
			WHERE f.deleted = 0 AND a.name LIKE ?`},
		{`SELECT f.id FROM files f JOIN faces fc ON fc.file_id = f.id JOIN people p ON p.id = fc.person_id
			WHERE f.deleted = 0 AND fc.status <= ? AND p.name LIKE ?`},
	}

	var groups [][]string
	for i, src := range sources {
		var args []interface{}
		if i == len(sources)-1 {
			args = []interface{}{FaceStatusPredicted, pattern}
		} else {
			args = []interface{}{pattern}
		}

		rows, err := db.Query(src.query, args...)
		if err != nil {
			return nil, err
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
		groups = append(groups, ids)
	}

	areaIDs, err := searchGeoTagAreaFiles(pattern)
	if err != nil {
		return nil, err
	}
	groups = append(groups, areaIDs)

	ranked := utils.RankByFrequency(groups...)

	files := make([]File, 0, len(ranked))
	for _, id := range ranked {
		file, err := GetFile(id)
		if err != nil {
			return nil, err
		}
		if file != nil {
			files = append(files, *file)
		}
	}
	return files, nil
}

// searchGeoTagAreaFiles collects the files whose geotag falls inside an
// area matching the query by name or address. Area membership is the
// radius test, so the files are filtered in Go rather than in SQL.
func searchGeoTagAreaFiles(pattern string) ([]string, error) {
	rows, err := db.Query(`SELECT id, name, address, latitude, longitude, radius, created_at, updated_at
	FROM geotag_areas WHERE name LIKE ? OR address LIKE ?`, pattern, pattern)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for i := range areas {
		areaIDs, err := GetFileIDsInArea(&areas[i])
		if err != nil {
			return nil, err
		}
		for _, id := range areaIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}
