package models

import (
	"database/sql"
	"errors"
	"time"
)

// Album is a user-curated collection of files. Albums nest, and a file
// added to a child album is removed from the ancestor albums it was in.
type Album struct {
	ID        int64  `json:"id"`
	ParentID  *int64 `json:"parent_id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// AlbumFile links a file into an album
type AlbumFile struct {
	ID        int64  `json:"id"`
	AlbumID   int64  `json:"album_id"`
	FileID    string `json:"file_id"`
	CreatedAt int64  `json:"created_at"`
}

const albumColumns = `id, parent_id, name, created_at, updated_at`

func scanAlbum(row rowScanner) (*Album, error) {
	var a Album
	var parentID sql.NullInt64
	if err := row.Scan(&a.ID, &parentID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		a.ParentID = &parentID.Int64
	}
	return &a, nil
}

// CreateAlbum adds a new Album to the database
func CreateAlbum(album Album) (*Album, error) {
	if album.Name == "" {
		return nil, errors.New("album name cannot be empty")
	}

	now := time.Now().Unix()
	album.CreatedAt = now
	album.UpdatedAt = now

	var parentID interface{}
	if album.ParentID != nil {
		parentID = *album.ParentID
	}

	result, err := db.Exec(`INSERT INTO albums (parent_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		parentID, album.Name, album.CreatedAt, album.UpdatedAt)
	if err != nil {
		return nil, err
	}
	album.ID, _ = result.LastInsertId()
	return &album, nil
}

// GetAlbum retrieves a single Album by id
func GetAlbum(id int64) (*Album, error) {
	row := db.QueryRow(`SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)
	album, err := scanAlbum(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return album, err
}

// GetAlbums retrieves the direct children of an album, or the top level
// albums when parentID is zero
func GetAlbums(parentID int64) ([]Album, error) {
	var rows *sql.Rows
	var err error
	if parentID == 0 {
		rows, err = db.Query(`SELECT ` + albumColumns + ` FROM albums WHERE parent_id IS NULL ORDER BY name`)
	} else {
		rows, err = db.Query(`SELECT `+albumColumns+` FROM albums WHERE parent_id = ? ORDER BY name`, parentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, *album)
	}
	return albums, rows.Err()
}

// UpdateAlbum renames or re-parents an existing Album
func UpdateAlbum(album *Album) error {
	if album.Name == "" {
		return errors.New("album name cannot be empty")
	}

	album.UpdatedAt = time.Now().Unix()

	var parentID interface{}
	if album.ParentID != nil {
		parentID = *album.ParentID
	}

	_, err := db.Exec(`UPDATE albums SET parent_id = ?, name = ?, updated_at = ? WHERE id = ?`,
		parentID, album.Name, album.UpdatedAt, album.ID)
	return err
}

// DeleteAlbum removes an album, its memberships, and its child albums
func DeleteAlbum(id int64) error {
	children, err := GetAlbums(id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := DeleteAlbum(child.ID); err != nil {
			return err
		}
	}
	if err := DeleteRecord(`DELETE FROM album_files WHERE album_id = ?`, id); err != nil {
		return err
	}
	return DeleteRecord(`DELETE FROM albums WHERE id = ?`, id)
}

// AlbumExists checks if an Album exists by id
func AlbumExists(id int64) (bool, error) {
	return ExistsChecker(`SELECT 1 FROM albums WHERE id = ?`, id)
}

// AddFileToAlbum links a file into an album and removes it from the
// album's ancestors so the file appears once in the hierarchy
func AddFileToAlbum(albumID int64, fileID string) error {
	album, err := GetAlbum(albumID)
	if err != nil {
		return err
	}
	if album == nil {
		return errors.New("album not found")
	}

	for parent := album.ParentID; parent != nil; {
		if err := RemoveFileFromAlbum(*parent, fileID); err != nil {
			return err
		}
		ancestor, err := GetAlbum(*parent)
		if err != nil {
			return err
		}
		if ancestor == nil {
			break
		}
		parent = ancestor.ParentID
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO album_files (album_id, file_id, created_at) VALUES (?, ?, ?)`,
		albumID, fileID, time.Now().Unix())
	return err
}

// RemoveFileFromAlbum drops a file's membership in an album
func RemoveFileFromAlbum(albumID int64, fileID string) error {
	return DeleteRecord(`DELETE FROM album_files WHERE album_id = ? AND file_id = ?`, albumID, fileID)
}

// GetAlbumFileCount returns how many files are linked into an album
func GetAlbumFileCount(albumID int64) (int64, error) {
	return CountRecords(`SELECT COUNT(*) FROM album_files WHERE album_id = ?`, albumID)
}

// GetAlbumsForFile lists the albums a file belongs to
func GetAlbumsForFile(fileID string) ([]Album, error) {
	rows, err := db.Query(`
	SELECT a.id, a.parent_id, a.name, a.created_at, a.updated_at
	FROM albums a
	JOIN album_files af ON af.album_id = a.id
	WHERE af.file_id = ?
	ORDER BY a.name`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, *album)
	}
	return albums, rows.Err()
}
