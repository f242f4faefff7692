package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// File is a single media item inside a Folder. The id doubles as the
// on-disk base name and encodes the capture timestamp.
type File struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FolderID    int64   `json:"folder_id"`
	Type        string  `json:"type"`
	Format      string  `json:"format"`
	Length      int64   `json:"length"`
	Starred     bool    `json:"starred"`
	Deleted     bool    `json:"deleted"`
	Notes       string  `json:"notes"`
	TakenAt     int64   `json:"taken_at"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Orientation int     `json:"orientation"`
	Duration    float64 `json:"duration"`
	GeoTagID    *int64  `json:"geotag_id"`
	Metadata    string  `json:"metadata"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

const fileColumns = `id, name, folder_id, type, format, length, starred, deleted, notes,
	taken_at, width, height, orientation, duration, geotag_id, metadata, created_at, updated_at`

const fileIDTimeLayout = "2006-01-02_15-04-05"

// Validate checks that the File has the required fields
func (f *File) Validate() error {
	if f.ID == "" {
		return errors.New("file id cannot be empty")
	}
	if f.Name == "" {
		return errors.New("file name cannot be empty")
	}
	if f.FolderID == 0 {
		return errors.New("file folder cannot be empty")
	}
	if f.Metadata == "" {
		f.Metadata = "{}"
	}
	if f.Orientation == 0 {
		f.Orientation = 1
	}
	return nil
}

// fileIDMu serializes id allocation. Concurrent ingest workers hitting
// the same capture second would otherwise compute the same suffix.
var fileIDMu sync.Mutex

// GenerateFileID builds a unique file id from a capture timestamp. Files
// taken in the same second get an incrementing hex disambiguator. Callers
// inserting the row afterwards should use CreateFileFromCapture, which
// holds the allocation lock across generate and insert.
func GenerateFileID(takenAt time.Time) (string, error) {
	return generateFileID(db, takenAt)
}

func generateFileID(e Executor, takenAt time.Time) (string, error) {
	prefix := takenAt.Format(fileIDTimeLayout)

	rows, err := e.Query(`SELECT id FROM files WHERE id LIKE ?`, prefix+"_%")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	next := int64(0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		suffix := id[strings.LastIndex(id, "_")+1:]
		n, err := strconv.ParseInt(suffix, 16, 64)
		if err != nil {
			continue
		}
		if n >= next {
			next = n + 1
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%04x", prefix, next), nil
}

// TakenAtFromID recovers the capture timestamp encoded in a file id
func TakenAtFromID(id string) (time.Time, error) {
	idx := strings.LastIndex(id, "_")
	if idx < 0 {
		return time.Time{}, errors.New("malformed file id")
	}
	return time.ParseInLocation(fileIDTimeLayout, id[:idx], time.Local)
}

func scanFile(row rowScanner) (*File, error) {
	var f File
	var geotagID sql.NullInt64
	err := row.Scan(&f.ID, &f.Name, &f.FolderID, &f.Type, &f.Format, &f.Length,
		&f.Starred, &f.Deleted, &f.Notes, &f.TakenAt, &f.Width, &f.Height,
		&f.Orientation, &f.Duration, &geotagID, &f.Metadata, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if geotagID.Valid {
		f.GeoTagID = &geotagID.Int64
	}
	return &f, nil
}

func collectFiles(rows *sql.Rows) ([]File, error) {
	var files []File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	return files, rows.Err()
}

// CreateFile adds a new File to the database
func CreateFile(file File) (*File, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}

	exists, err := FileExists(file.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("file already exists")
	}

	if err := insertFile(db, &file); err != nil {
		return nil, err
	}

	NotifyListeners(Notification{Type: "file_created", Payload: file})
	return &file, nil
}

func insertFile(e Executor, file *File) error {
	now := time.Now().Unix()
	file.CreatedAt = now
	file.UpdatedAt = now

	var geotagID interface{}
	if file.GeoTagID != nil {
		geotagID = *file.GeoTagID
	}

	query := `
	INSERT INTO files (` + fileColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := e.Exec(query, file.ID, file.Name, file.FolderID, file.Type, file.Format,
		file.Length, file.Starred, file.Deleted, file.Notes, file.TakenAt,
		file.Width, file.Height, file.Orientation, file.Duration, geotagID,
		file.Metadata, file.CreatedAt, file.UpdatedAt)
	return err
}

// CreateFileFromCapture allocates the next free id for a capture timestamp
// and inserts the row in one serialized step, so burst photos ingested by
// concurrent workers never collide on an id. The file's ID and Name are
// filled in; the name is the id plus ext. Callers rename the on-disk file
// only after this returns.
func CreateFileFromCapture(file File, takenAt time.Time, ext string) (*File, error) {
	fileIDMu.Lock()
	defer fileIDMu.Unlock()

	tx, err := BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := generateFileID(tx, takenAt)
	if err != nil {
		return nil, err
	}
	file.ID = id
	file.Name = id + ext
	file.TakenAt = takenAt.Unix()

	if err := file.Validate(); err != nil {
		return nil, err
	}
	if err := insertFile(tx, &file); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	NotifyListeners(Notification{Type: "file_created", Payload: file})
	return &file, nil
}

// GetFile retrieves a single File by id
func GetFile(id string) (*File, error) {
	row := db.QueryRow(`SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	file, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return file, err
}

// FileFilter narrows down the files returned by GetFiles. A zero filter
// returns every file that is not marked deleted.
type FileFilter struct {
	FolderID          int64
	IncludeSubfolders bool
	AlbumID           int64
	PersonID          int64
	Starred           bool
	Deleted           bool
	Type              string
	Limit             int
	Offset            int
}

// GetFiles retrieves files matching the filter, newest captures first
func GetFiles(filter FileFilter) ([]File, error) {
	var conditions []string
	var args []interface{}

	if filter.FolderID != 0 {
		if filter.IncludeSubfolders {
			ids, err := SubfolderIDs(filter.FolderID)
			if err != nil {
				return nil, err
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
			conditions = append(conditions, `folder_id IN (`+placeholders+`)`)
			for _, id := range ids {
				args = append(args, id)
			}
		} else {
			conditions = append(conditions, `folder_id = ?`)
			args = append(args, filter.FolderID)
		}
	}
	if filter.AlbumID != 0 {
		conditions = append(conditions, `id IN (SELECT file_id FROM album_files WHERE album_id = ?)`)
		args = append(args, filter.AlbumID)
	}
	if filter.PersonID != 0 {
		conditions = append(conditions, `id IN (SELECT file_id FROM faces WHERE person_id = ? AND status < ?)`)
		args = append(args, filter.PersonID, FaceStatusPredicted)
	}
	if filter.Starred {
		conditions = append(conditions, `starred = 1`)
	}
	if filter.Type != "" {
		conditions = append(conditions, `type = ?`)
		args = append(args, filter.Type)
	}
	if filter.Deleted {
		conditions = append(conditions, `deleted = 1`)
	} else {
		conditions = append(conditions, `deleted = 0`)
	}

	query := `SELECT ` + fileColumns + ` FROM files WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY taken_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

// GetFilesByFolder retrieves the non-deleted files directly inside a folder
func GetFilesByFolder(folderID int64) ([]File, error) {
	return GetFiles(FileFilter{FolderID: folderID})
}

// UpdateFile modifies an existing File
func UpdateFile(file *File) error {
	if err := file.Validate(); err != nil {
		return err
	}

	file.UpdatedAt = time.Now().Unix()

	var geotagID interface{}
	if file.GeoTagID != nil {
		geotagID = *file.GeoTagID
	}

	query := `
	UPDATE files
	SET name = ?, folder_id = ?, type = ?, format = ?, length = ?, starred = ?,
		deleted = ?, notes = ?, taken_at = ?, width = ?, height = ?, orientation = ?,
		duration = ?, geotag_id = ?, metadata = ?, updated_at = ?
	WHERE id = ?
	`

	_, err := db.Exec(query, file.Name, file.FolderID, file.Type, file.Format,
		file.Length, file.Starred, file.Deleted, file.Notes, file.TakenAt,
		file.Width, file.Height, file.Orientation, file.Duration, geotagID,
		file.Metadata, file.UpdatedAt, file.ID)
	if err != nil {
		return err
	}

	NotifyListeners(Notification{Type: "file_updated", Payload: *file})
	return nil
}

// SetFileStarred toggles the starred flag of a file
func SetFileStarred(id string, starred bool) error {
	_, err := db.Exec(`UPDATE files SET starred = ?, updated_at = ? WHERE id = ?`,
		starred, time.Now().Unix(), id)
	return err
}

// SetFileDeleted moves a file into or out of the trash
func SetFileDeleted(id string, deleted bool) error {
	_, err := db.Exec(`UPDATE files SET deleted = ?, updated_at = ? WHERE id = ?`,
		deleted, time.Now().Unix(), id)
	return err
}

// SetFileNotes replaces the free-form notes of a file
func SetFileNotes(id string, notes string) error {
	_, err := db.Exec(`UPDATE files SET notes = ?, updated_at = ? WHERE id = ?`,
		notes, time.Now().Unix(), id)
	return err
}

// SetFileOrientation stores a new display orientation for a file
func SetFileOrientation(id string, orientation int) error {
	_, err := db.Exec(`UPDATE files SET orientation = ?, updated_at = ? WHERE id = ?`,
		orientation, time.Now().Unix(), id)
	return err
}

// SetFileGeoTag points a file at a geotag row, or clears the link when
// geotagID is nil. Orphaned geotag rows are left for the next prune.
func SetFileGeoTag(id string, geotagID *int64) error {
	var value interface{}
	if geotagID != nil {
		value = *geotagID
	}
	_, err := db.Exec(`UPDATE files SET geotag_id = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().Unix(), id)
	return err
}

// MoveFile re-parents a file to a different folder
func MoveFile(id string, folderID int64) error {
	_, err := db.Exec(`UPDATE files SET folder_id = ?, updated_at = ? WHERE id = ?`,
		folderID, time.Now().Unix(), id)
	return err
}

// DeleteFile removes a File and its dependent rows
func DeleteFile(id string) error {
	if err := DeleteRecord(`DELETE FROM faces WHERE file_id = ?`, id); err != nil {
		return err
	}
	if err := DeleteRecord(`DELETE FROM album_files WHERE file_id = ?`, id); err != nil {
		return err
	}
	if err := DeleteRecord(`DELETE FROM files WHERE id = ?`, id); err != nil {
		return err
	}
	NotifyListeners(Notification{Type: "file_deleted", Payload: id})
	return nil
}

// FileExists checks if a File exists by id
func FileExists(id string) (bool, error) {
	return ExistsChecker(`SELECT 1 FROM files WHERE id = ?`, id)
}

// CountFilesInFolder returns the number of non-deleted files and their
// combined size for a single folder
func CountFilesInFolder(folderID int64) (int64, int64, error) {
	row := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(length), 0) FROM files WHERE folder_id = ? AND deleted = 0`, folderID)
	var count, total int64
	if err := row.Scan(&count, &total); err != nil {
		return 0, 0, err
	}
	return count, total, nil
}
