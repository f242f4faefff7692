package models

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/arkdale/photon/utils"
	"github.com/gofiber/fiber/v2/log"
)

// RootFolder is a filesystem location registered for scanning. Its virtual
// folder tree hangs off FolderID.
type RootFolder struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	FolderID  int64  `json:"folder_id"`
	Cron      string `json:"cron"`
	CreatedAt int64  `json:"created_at"` // Unix timestamp
	UpdatedAt int64  `json:"updated_at"` // Unix timestamp
}

// Validate checks if the RootFolder has valid values
func (rf *RootFolder) Validate() error {
	if rf.Name == "" {
		return errors.New("root folder name cannot be empty")
	}
	if rf.Path == "" {
		return errors.New("root folder path cannot be empty")
	}
	if !filepath.IsAbs(rf.Path) {
		return errors.New("root folder path must be absolute")
	}
	if rf.Cron == "" {
		return errors.New("root folder cron cannot be empty")
	}
	rf.Slug = utils.Sluggify(rf.Name)
	return nil
}

// CreateRootFolder adds a new RootFolder and its backing virtual folder
func CreateRootFolder(rootFolder RootFolder) (*RootFolder, error) {
	if err := rootFolder.Validate(); err != nil {
		return nil, err
	}
	exists, err := RootFolderExists(rootFolder.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("root folder already exists")
	}

	now := time.Now().Unix()
	rootFolder.CreatedAt = now
	rootFolder.UpdatedAt = now

	folder, err := CreateFolder(Folder{Name: rootFolder.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual folder: %w", err)
	}
	rootFolder.FolderID = folder.ID

	query := `
	INSERT INTO root_folders (slug, name, path, folder_id, cron, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, rootFolder.Slug, rootFolder.Name, rootFolder.Path, rootFolder.FolderID, rootFolder.Cron, rootFolder.CreatedAt, rootFolder.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rootFolder.ID, _ = result.LastInsertId()

	NotifyListeners(Notification{Type: "rootfolder_created", Payload: rootFolder})
	return &rootFolder, nil
}

// GetRootFolders retrieves all RootFolders from the database
func GetRootFolders() ([]RootFolder, error) {
	query := `SELECT id, slug, name, path, folder_id, cron, created_at, updated_at FROM root_folders`

	rows, err := db.Query(query)
	if err != nil {
		log.Errorf("Failed to get root folders: %v", err)
		return nil, err
	}
	defer rows.Close()

	var rootFolders []RootFolder
	for rows.Next() {
		var rf RootFolder
		if err := rows.Scan(&rf.ID, &rf.Slug, &rf.Name, &rf.Path, &rf.FolderID, &rf.Cron, &rf.CreatedAt, &rf.UpdatedAt); err != nil {
			log.Errorf("Failed to scan root folder row: %v", err)
			continue
		}
		rootFolders = append(rootFolders, rf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rootFolders, nil
}

// GetRootFolder retrieves a single RootFolder by slug
func GetRootFolder(slug string) (*RootFolder, error) {
	query := `
	SELECT id, slug, name, path, folder_id, cron, created_at, updated_at
	FROM root_folders
	WHERE slug = ?
	`
	row := db.QueryRow(query, slug)

	var rf RootFolder
	if err := row.Scan(&rf.ID, &rf.Slug, &rf.Name, &rf.Path, &rf.FolderID, &rf.Cron, &rf.CreatedAt, &rf.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rf, nil
}

// GetRootFolderByFolderID retrieves the RootFolder owning a virtual folder
func GetRootFolderByFolderID(folderID int64) (*RootFolder, error) {
	query := `
	SELECT id, slug, name, path, folder_id, cron, created_at, updated_at
	FROM root_folders
	WHERE folder_id = ?
	`
	row := db.QueryRow(query, folderID)

	var rf RootFolder
	if err := row.Scan(&rf.ID, &rf.Slug, &rf.Name, &rf.Path, &rf.FolderID, &rf.Cron, &rf.CreatedAt, &rf.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rf, nil
}

// UpdateRootFolder modifies an existing RootFolder
func UpdateRootFolder(rootFolder *RootFolder) error {
	if err := rootFolder.Validate(); err != nil {
		return err
	}
	rootFolder.UpdatedAt = time.Now().Unix()

	query := `
	UPDATE root_folders
	SET name = ?, path = ?, cron = ?, updated_at = ?
	WHERE slug = ?
	`

	_, err := db.Exec(query, rootFolder.Name, rootFolder.Path, rootFolder.Cron, rootFolder.UpdatedAt, rootFolder.Slug)
	if err != nil {
		return err
	}

	NotifyListeners(Notification{Type: "rootfolder_updated", Payload: *rootFolder})
	return nil
}

// DeleteRootFolder removes a RootFolder and its virtual folder tree
func DeleteRootFolder(slug string) error {
	rootFolder, err := GetRootFolder(slug)
	if err != nil {
		return err
	}
	if rootFolder == nil {
		return fmt.Errorf("root folder '%s' not found", slug)
	}

	query := `DELETE FROM root_folders WHERE slug = ?`

	if _, err = db.Exec(query, slug); err != nil {
		return err
	}

	NotifyListeners(Notification{Type: "rootfolder_deleted", Payload: *rootFolder})
	if err := DeleteFolderTree(rootFolder.FolderID); err != nil {
		return err
	}
	return nil
}

// RootFolderExists checks if a RootFolder exists by slug
func RootFolderExists(slug string) (bool, error) {
	return ExistsChecker(`SELECT 1 FROM root_folders WHERE slug = ?`, slug)
}
