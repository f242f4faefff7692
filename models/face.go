package models

import (
	"database/sql"
	"errors"
	"time"
)

// Face statuses order the review workflow. Lower values are more
// trusted; listings sort confirmed faces before predictions.
const (
	FaceStatusConfirmedRoot = 0
	FaceStatusConfirmedUser = 1
	FaceStatusPredicted     = 2
	FaceStatusUnassigned    = 3
	FaceStatusIgnored       = 4
	FaceStatusRemoved       = 5
)

// Face is a detected face region within a file. The rectangle is stored
// in unrotated image coordinates; Rotation records the display angle the
// detector matched at.
type Face struct {
	ID          int64   `json:"id"`
	FileID      string  `json:"file_id"`
	PersonID    *int64  `json:"person_id"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Rotation    int     `json:"rotation"`
	Status      int     `json:"status"`
	Uncertainty float64 `json:"uncertainty"`
	Thumbnail   []byte  `json:"-"`
	Descriptor  string  `json:"-"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

const faceColumns = `id, file_id, person_id, x, y, width, height, rotation, status,
	uncertainty, thumbnail, descriptor, created_at, updated_at`

// Validate checks that the Face has the required fields
func (f *Face) Validate() error {
	if f.FileID == "" {
		return errors.New("face file cannot be empty")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return errors.New("face rectangle cannot be empty")
	}
	if f.Status < FaceStatusConfirmedRoot || f.Status > FaceStatusRemoved {
		return errors.New("invalid face status")
	}
	return nil
}

func scanFace(row rowScanner) (*Face, error) {
	var f Face
	var personID sql.NullInt64
	err := row.Scan(&f.ID, &f.FileID, &personID, &f.X, &f.Y, &f.Width, &f.Height,
		&f.Rotation, &f.Status, &f.Uncertainty, &f.Thumbnail, &f.Descriptor,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if personID.Valid {
		f.PersonID = &personID.Int64
	}
	return &f, nil
}

func collectFaces(rows *sql.Rows) ([]Face, error) {
	var faces []Face
	for rows.Next() {
		face, err := scanFace(rows)
		if err != nil {
			return nil, err
		}
		faces = append(faces, *face)
	}
	return faces, rows.Err()
}

// CreateFace adds a new Face to the database
func CreateFace(face Face) (*Face, error) {
	if err := face.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	face.CreatedAt = now
	face.UpdatedAt = now

	var personID interface{}
	if face.PersonID != nil {
		personID = *face.PersonID
	}

	query := `
	INSERT INTO faces (file_id, person_id, x, y, width, height, rotation, status,
		uncertainty, thumbnail, descriptor, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, face.FileID, personID, face.X, face.Y,
		face.Width, face.Height, face.Rotation, face.Status, face.Uncertainty,
		face.Thumbnail, face.Descriptor, face.CreatedAt, face.UpdatedAt)
	if err != nil {
		return nil, err
	}
	face.ID, _ = result.LastInsertId()
	return &face, nil
}

// GetFace retrieves a single Face by id
func GetFace(id int64) (*Face, error) {
	row := db.QueryRow(`SELECT `+faceColumns+` FROM faces WHERE id = ?`, id)
	face, err := scanFace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return face, err
}

// GetFacesByFile retrieves the faces found in a file, confirmed first
func GetFacesByFile(fileID string) ([]Face, error) {
	rows, err := db.Query(`SELECT `+faceColumns+` FROM faces WHERE file_id = ? AND status < ? ORDER BY status, uncertainty`,
		fileID, FaceStatusRemoved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFaces(rows)
}

// GetFacesByPerson retrieves the faces assigned to a person
func GetFacesByPerson(personID int64) ([]Face, error) {
	rows, err := db.Query(`SELECT `+faceColumns+` FROM faces WHERE person_id = ? AND status <= ? ORDER BY status, uncertainty`,
		personID, FaceStatusPredicted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFaces(rows)
}

// GetFacesByStatus retrieves faces in a review state, most certain first
func GetFacesByStatus(status int) ([]Face, error) {
	rows, err := db.Query(`SELECT `+faceColumns+` FROM faces WHERE status = ? ORDER BY uncertainty`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFaces(rows)
}

// GetConfirmedFaceDescriptors returns the descriptors of faces a user has
// confirmed, keyed by person, for the recognizer to train on
func GetConfirmedFaceDescriptors() ([]Face, error) {
	rows, err := db.Query(`SELECT `+faceColumns+` FROM faces WHERE person_id IS NOT NULL AND status <= ? AND descriptor != ''`,
		FaceStatusConfirmedUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFaces(rows)
}

// AssignFaceToPerson confirms a face as belonging to a person
func AssignFaceToPerson(faceID, personID int64) error {
	_, err := db.Exec(`UPDATE faces SET person_id = ?, status = ?, uncertainty = 0, updated_at = ? WHERE id = ?`,
		personID, FaceStatusConfirmedUser, time.Now().Unix(), faceID)
	return err
}

// SetFaceStatus moves a face to another review state. Detaching states
// clear the person assignment.
func SetFaceStatus(faceID int64, status int) error {
	if status < FaceStatusConfirmedRoot || status > FaceStatusRemoved {
		return errors.New("invalid face status")
	}
	now := time.Now().Unix()
	if status >= FaceStatusUnassigned {
		_, err := db.Exec(`UPDATE faces SET person_id = NULL, status = ?, updated_at = ? WHERE id = ?`,
			status, now, faceID)
		return err
	}
	_, err := db.Exec(`UPDATE faces SET status = ?, updated_at = ? WHERE id = ?`, status, now, faceID)
	return err
}

// SetFacePrediction records the recognizer's guess for an unassigned face
func SetFacePrediction(faceID, personID int64, uncertainty float64) error {
	_, err := db.Exec(`UPDATE faces SET person_id = ?, status = ?, uncertainty = ?, updated_at = ? WHERE id = ?`,
		personID, FaceStatusPredicted, uncertainty, time.Now().Unix(), faceID)
	return err
}

// ClearFacePredictions reverts unconfirmed predictions so the recognizer
// can be rerun from a clean slate
func ClearFacePredictions() error {
	_, err := db.Exec(`UPDATE faces SET person_id = NULL, status = ?, uncertainty = 1, updated_at = ? WHERE status = ?`,
		FaceStatusUnassigned, time.Now().Unix(), FaceStatusPredicted)
	return err
}

// DeleteFace removes a Face from the database
func DeleteFace(id int64) error {
	return DeleteRecord(`DELETE FROM faces WHERE id = ?`, id)
}

// DeleteFacesByFile removes all faces belonging to a file
func DeleteFacesByFile(fileID string) error {
	return DeleteRecord(`DELETE FROM faces WHERE file_id = ?`, fileID)
}

// FaceExists checks if a Face exists by id
func FaceExists(id int64) (bool, error) {
	return ExistsChecker(`SELECT 1 FROM faces WHERE id = ?`, id)
}

// CountFacesByPerson returns the number of confirmed and predicted faces
// assigned to a person
func CountFacesByPerson(personID int64) (int64, error) {
	return CountRecords(`SELECT COUNT(*) FROM faces WHERE person_id = ? AND status <= ?`, personID, FaceStatusPredicted)
}
