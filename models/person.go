package models

import (
	"database/sql"
	"errors"
	"time"
)

// PersonGroup clusters people for the people overview, e.g. "Family"
type PersonGroup struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Person is a named identity that faces get assigned to
type Person struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	GroupID   *int64 `json:"group_id"`
	FaceCount int64  `json:"face_count"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

const personColumns = `id, name, group_id, created_at, updated_at`

func scanPerson(row rowScanner) (*Person, error) {
	var p Person
	var groupID sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &groupID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if groupID.Valid {
		p.GroupID = &groupID.Int64
	}
	return &p, nil
}

// CreatePerson adds a new Person to the database
func CreatePerson(person Person) (*Person, error) {
	if person.Name == "" {
		return nil, errors.New("person name cannot be empty")
	}

	now := time.Now().Unix()
	person.CreatedAt = now
	person.UpdatedAt = now

	var groupID interface{}
	if person.GroupID != nil {
		groupID = *person.GroupID
	}

	result, err := db.Exec(`INSERT INTO people (name, group_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		person.Name, groupID, person.CreatedAt, person.UpdatedAt)
	if err != nil {
		return nil, err
	}
	person.ID, _ = result.LastInsertId()
	return &person, nil
}

// GetPerson retrieves a single Person by id
func GetPerson(id int64) (*Person, error) {
	row := db.QueryRow(`SELECT `+personColumns+` FROM people WHERE id = ?`, id)
	person, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return person, err
}

// GetPeople retrieves all people with their assigned face counts
func GetPeople() ([]Person, error) {
	rows, err := db.Query(`
	SELECT p.id, p.name, p.group_id, p.created_at, p.updated_at,
		(SELECT COUNT(*) FROM faces f WHERE f.person_id = p.id AND f.status <= ?) AS face_count
	FROM people p
	ORDER BY p.name`, FaceStatusPredicted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		var groupID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &groupID, &p.CreatedAt, &p.UpdatedAt, &p.FaceCount); err != nil {
			return nil, err
		}
		if groupID.Valid {
			p.GroupID = &groupID.Int64
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// GetPersonThumbnailFace returns the face whose crop represents a person,
// the largest confirmed face assigned to them
func GetPersonThumbnailFace(personID int64) (*Face, error) {
	row := db.QueryRow(`SELECT `+faceColumns+` FROM faces
	WHERE person_id = ? AND status <= ?
	ORDER BY status, width * height DESC
	LIMIT 1`, personID, FaceStatusConfirmedUser)
	face, err := scanFace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return face, err
}

// UpdatePerson modifies an existing Person
func UpdatePerson(person *Person) error {
	if person.Name == "" {
		return errors.New("person name cannot be empty")
	}

	person.UpdatedAt = time.Now().Unix()

	var groupID interface{}
	if person.GroupID != nil {
		groupID = *person.GroupID
	}

	_, err := db.Exec(`UPDATE people SET name = ?, group_id = ?, updated_at = ? WHERE id = ?`,
		person.Name, groupID, person.UpdatedAt, person.ID)
	return err
}

// DeletePerson removes a person and detaches their faces back into the
// unassigned queue
func DeletePerson(id int64) error {
	_, err := db.Exec(`UPDATE faces SET person_id = NULL, status = ?, updated_at = ? WHERE person_id = ?`,
		FaceStatusUnassigned, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	return DeleteRecord(`DELETE FROM people WHERE id = ?`, id)
}

// PersonExists checks if a Person exists by id
func PersonExists(id int64) (bool, error) {
	return ExistsChecker(`SELECT 1 FROM people WHERE id = ?`, id)
}

// CreatePersonGroup adds a new PersonGroup to the database
func CreatePersonGroup(group PersonGroup) (*PersonGroup, error) {
	if group.Name == "" {
		return nil, errors.New("group name cannot be empty")
	}

	now := time.Now().Unix()
	group.CreatedAt = now
	group.UpdatedAt = now

	result, err := db.Exec(`INSERT INTO person_groups (name, created_at, updated_at) VALUES (?, ?, ?)`,
		group.Name, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return nil, err
	}
	group.ID, _ = result.LastInsertId()
	return &group, nil
}

// GetPersonGroups retrieves all person groups
func GetPersonGroups() ([]PersonGroup, error) {
	rows, err := db.Query(`SELECT id, name, created_at, updated_at FROM person_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []PersonGroup
	for rows.Next() {
		var g PersonGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// UpdatePersonGroup renames an existing PersonGroup
func UpdatePersonGroup(group *PersonGroup) error {
	if group.Name == "" {
		return errors.New("group name cannot be empty")
	}
	group.UpdatedAt = time.Now().Unix()
	_, err := db.Exec(`UPDATE person_groups SET name = ?, updated_at = ? WHERE id = ?`,
		group.Name, group.UpdatedAt, group.ID)
	return err
}

// DeletePersonGroup removes a group and detaches its members
func DeletePersonGroup(id int64) error {
	_, err := db.Exec(`UPDATE people SET group_id = NULL, updated_at = ? WHERE group_id = ?`,
		time.Now().Unix(), id)
	if err != nil {
		return err
	}
	return DeleteRecord(`DELETE FROM person_groups WHERE id = ?`, id)
}
