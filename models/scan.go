package models

import (
	"database/sql"
	"errors"
	"time"
)

// Scan file statuses track the review of detected photo prints within a
// scanned sheet
const (
	ScanFileStatusPending   = 0
	ScanFileStatusConfirmed = 1
	ScanFileStatusSkipped   = 2
)

// ScanRootFolder is a directory of scanner output sheets awaiting crop
// review
type ScanRootFolder struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// ScanFolder mirrors a directory underneath a scan root
type ScanFolder struct {
	ID        int64  `json:"id"`
	RootID    int64  `json:"root_id"`
	ParentID  *int64 `json:"parent_id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// ScanFile is a single scanner sheet. Options holds the crop rectangles
// and review state as JSON.
type ScanFile struct {
	ID        int64  `json:"id"`
	FolderID  int64  `json:"folder_id"`
	Name      string `json:"name"`
	Status    int    `json:"status"`
	Options   string `json:"options"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// CreateScanRootFolder adds a new ScanRootFolder to the database
func CreateScanRootFolder(root ScanRootFolder) (*ScanRootFolder, error) {
	if root.Name == "" || root.Path == "" {
		return nil, errors.New("scan root name and path cannot be empty")
	}

	now := time.Now().Unix()
	root.CreatedAt = now
	root.UpdatedAt = now

	result, err := db.Exec(`INSERT INTO scan_root_folders (name, path, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		root.Name, root.Path, root.CreatedAt, root.UpdatedAt)
	if err != nil {
		return nil, err
	}
	root.ID, _ = result.LastInsertId()
	return &root, nil
}

// GetScanRootFolders retrieves all scan roots
func GetScanRootFolders() ([]ScanRootFolder, error) {
	rows, err := db.Query(`SELECT id, name, path, created_at, updated_at FROM scan_root_folders ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roots []ScanRootFolder
	for rows.Next() {
		var r ScanRootFolder
		if err := rows.Scan(&r.ID, &r.Name, &r.Path, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		roots = append(roots, r)
	}
	return roots, rows.Err()
}

// GetScanRootFolder retrieves a single ScanRootFolder by id
func GetScanRootFolder(id int64) (*ScanRootFolder, error) {
	row := db.QueryRow(`SELECT id, name, path, created_at, updated_at FROM scan_root_folders WHERE id = ?`, id)
	var r ScanRootFolder
	err := row.Scan(&r.ID, &r.Name, &r.Path, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteScanRootFolder removes a scan root with its folders and files
func DeleteScanRootFolder(id int64) error {
	if err := DeleteRecord(`DELETE FROM scan_files WHERE folder_id IN (SELECT id FROM scan_folders WHERE root_id = ?)`, id); err != nil {
		return err
	}
	if err := DeleteRecord(`DELETE FROM scan_folders WHERE root_id = ?`, id); err != nil {
		return err
	}
	return DeleteRecord(`DELETE FROM scan_root_folders WHERE id = ?`, id)
}

func scanScanFolder(row rowScanner) (*ScanFolder, error) {
	var f ScanFolder
	var parentID sql.NullInt64
	if err := row.Scan(&f.ID, &f.RootID, &parentID, &f.Name, &f.Path, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.Int64
	}
	return &f, nil
}

// CreateScanFolder adds a new ScanFolder to the database
func CreateScanFolder(folder ScanFolder) (*ScanFolder, error) {
	if folder.Name == "" {
		return nil, errors.New("scan folder name cannot be empty")
	}

	now := time.Now().Unix()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	var parentID interface{}
	if folder.ParentID != nil {
		parentID = *folder.ParentID
	}

	result, err := db.Exec(`INSERT INTO scan_folders (root_id, parent_id, name, path, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		folder.RootID, parentID, folder.Name, folder.Path, folder.CreatedAt, folder.UpdatedAt)
	if err != nil {
		return nil, err
	}
	folder.ID, _ = result.LastInsertId()
	return &folder, nil
}

// GetScanFolder retrieves a single ScanFolder by id
func GetScanFolder(id int64) (*ScanFolder, error) {
	row := db.QueryRow(`SELECT id, root_id, parent_id, name, path, created_at, updated_at FROM scan_folders WHERE id = ?`, id)
	folder, err := scanScanFolder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return folder, err
}

// GetScanFolders retrieves the children of a scan folder, or the top
// level folders of a root when parentID is nil
func GetScanFolders(rootID int64, parentID *int64) ([]ScanFolder, error) {
	var rows *sql.Rows
	var err error
	if parentID == nil {
		rows, err = db.Query(`SELECT id, root_id, parent_id, name, path, created_at, updated_at
		FROM scan_folders WHERE root_id = ? AND parent_id IS NULL ORDER BY name`, rootID)
	} else {
		rows, err = db.Query(`SELECT id, root_id, parent_id, name, path, created_at, updated_at
		FROM scan_folders WHERE parent_id = ? ORDER BY name`, *parentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []ScanFolder
	for rows.Next() {
		folder, err := scanScanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *folder)
	}
	return folders, rows.Err()
}

// DeleteScanFolder removes a scan folder and its files
func DeleteScanFolder(id int64) error {
	if err := DeleteRecord(`DELETE FROM scan_files WHERE folder_id = ?`, id); err != nil {
		return err
	}
	return DeleteRecord(`DELETE FROM scan_folders WHERE id = ?`, id)
}

// CreateScanFile adds a new ScanFile to the database
func CreateScanFile(file ScanFile) (*ScanFile, error) {
	if file.Name == "" || file.FolderID == 0 {
		return nil, errors.New("scan file name and folder cannot be empty")
	}
	if file.Options == "" {
		file.Options = "{}"
	}

	now := time.Now().Unix()
	file.CreatedAt = now
	file.UpdatedAt = now

	result, err := db.Exec(`INSERT INTO scan_files (folder_id, name, status, options, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		file.FolderID, file.Name, file.Status, file.Options, file.CreatedAt, file.UpdatedAt)
	if err != nil {
		return nil, err
	}
	file.ID, _ = result.LastInsertId()
	return &file, nil
}

// GetScanFile retrieves a single ScanFile by id
func GetScanFile(id int64) (*ScanFile, error) {
	row := db.QueryRow(`SELECT id, folder_id, name, status, options, created_at, updated_at FROM scan_files WHERE id = ?`, id)
	var f ScanFile
	err := row.Scan(&f.ID, &f.FolderID, &f.Name, &f.Status, &f.Options, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetScanFileByName finds a scan file by folder and name
func GetScanFileByName(folderID int64, name string) (*ScanFile, error) {
	row := db.QueryRow(`SELECT id, folder_id, name, status, options, created_at, updated_at
	FROM scan_files WHERE folder_id = ? AND name = ?`, folderID, name)
	var f ScanFile
	err := row.Scan(&f.ID, &f.FolderID, &f.Name, &f.Status, &f.Options, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetScanFiles retrieves the scan files in a folder, pending first
func GetScanFiles(folderID int64) ([]ScanFile, error) {
	rows, err := db.Query(`SELECT id, folder_id, name, status, options, created_at, updated_at
	FROM scan_files WHERE folder_id = ? ORDER BY status, name`, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []ScanFile
	for rows.Next() {
		var f ScanFile
		if err := rows.Scan(&f.ID, &f.FolderID, &f.Name, &f.Status, &f.Options, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// UpdateScanFile stores new status or crop options for a scan file
func UpdateScanFile(file *ScanFile) error {
	file.UpdatedAt = time.Now().Unix()
	_, err := db.Exec(`UPDATE scan_files SET status = ?, options = ?, updated_at = ? WHERE id = ?`,
		file.Status, file.Options, file.UpdatedAt, file.ID)
	return err
}

// DeleteScanFile removes a ScanFile from the database
func DeleteScanFile(id int64) error {
	return DeleteRecord(`DELETE FROM scan_files WHERE id = ?`, id)
}
