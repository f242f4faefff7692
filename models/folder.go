package models

import (
	"database/sql"
	"errors"
	"time"
)

// Folder is a node in the virtual folder tree mirroring an on-disk directory.
// Path, FileCount and TotalLength are cached and refreshed after scans.
type Folder struct {
	ID          int64  `json:"id"`
	ParentID    *int64 `json:"parent_id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	FileCount   int64  `json:"file_count"`
	TotalLength int64  `json:"total_length"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

const folderColumns = `id, parent_id, name, path, file_count, total_length, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFolder(row rowScanner) (*Folder, error) {
	var f Folder
	var parentID sql.NullInt64
	if err := row.Scan(&f.ID, &parentID, &f.Name, &f.Path, &f.FileCount, &f.TotalLength, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.Int64
	}
	return &f, nil
}

// CreateFolder adds a new Folder to the database
func CreateFolder(folder Folder) (*Folder, error) {
	if folder.Name == "" {
		return nil, errors.New("folder name cannot be empty")
	}

	now := time.Now().Unix()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	var parentID interface{}
	if folder.ParentID != nil {
		parentID = *folder.ParentID
	}

	query := `
	INSERT INTO folders (parent_id, name, path, file_count, total_length, created_at, updated_at)
	VALUES (?, ?, ?, 0, 0, ?, ?)
	`

	result, err := db.Exec(query, parentID, folder.Name, folder.Path, folder.CreatedAt, folder.UpdatedAt)
	if err != nil {
		return nil, err
	}
	folder.ID, _ = result.LastInsertId()
	return &folder, nil
}

// GetFolder retrieves a single Folder by id
func GetFolder(id int64) (*Folder, error) {
	row := db.QueryRow(`SELECT `+folderColumns+` FROM folders WHERE id = ?`, id)
	folder, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return folder, err
}

// GetChildFolders retrieves the direct children of a folder
func GetChildFolders(parentID int64) ([]Folder, error) {
	rows, err := db.Query(`SELECT `+folderColumns+` FROM folders WHERE parent_id = ? ORDER BY name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFolders(rows)
}

// GetRootLevelFolders retrieves folders without a parent, one per root folder
func GetRootLevelFolders() ([]Folder, error) {
	rows, err := db.Query(`SELECT ` + folderColumns + ` FROM folders WHERE parent_id IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFolders(rows)
}

// GetFolderByParentAndName finds a child folder by name within a parent
func GetFolderByParentAndName(parentID int64, name string) (*Folder, error) {
	row := db.QueryRow(`SELECT `+folderColumns+` FROM folders WHERE parent_id = ? AND name = ?`, parentID, name)
	folder, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return folder, err
}

func collectFolders(rows *sql.Rows) ([]Folder, error) {
	var folders []Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *folder)
	}
	return folders, rows.Err()
}

// UpdateFolderCaches stores the recomputed cached properties of a folder
func UpdateFolderCaches(id int64, path string, fileCount, totalLength int64) error {
	query := `
	UPDATE folders
	SET path = ?, file_count = ?, total_length = ?, updated_at = ?
	WHERE id = ?
	`
	_, err := db.Exec(query, path, fileCount, totalLength, time.Now().Unix(), id)
	return err
}

// DeleteFolder removes a single Folder row
func DeleteFolder(id int64) error {
	return DeleteRecord(`DELETE FROM folders WHERE id = ?`, id)
}

// DeleteFolderTree removes a folder, its descendant folders, and their files
func DeleteFolderTree(id int64) error {
	children, err := GetChildFolders(id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := DeleteFolderTree(child.ID); err != nil {
			return err
		}
	}
	if err := DeleteRecord(`DELETE FROM files WHERE folder_id = ?`, id); err != nil {
		return err
	}
	return DeleteFolder(id)
}

// SubfolderIDs returns the ids of a folder and all its descendants
func SubfolderIDs(id int64) ([]int64, error) {
	ids := []int64{id}
	children, err := GetChildFolders(id)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		childIDs, err := SubfolderIDs(child.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, childIDs...)
	}
	return ids, nil
}

// FolderExists checks if a Folder exists by id
func FolderExists(id int64) (bool, error) {
	return ExistsChecker(`SELECT 1 FROM folders WHERE id = ?`, id)
}
