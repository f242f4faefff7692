package models

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Invite is a single-use registration token handed out by an admin
type Invite struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	CreatedBy string `json:"created_by"`
	UsedBy    string `json:"used_by"`
	CreatedAt int64  `json:"created_at"`
}

// CreateInvite issues a new registration token for the given role
func CreateInvite(role, createdBy string) (*Invite, error) {
	if !ValidRole(role) {
		return nil, errors.New("invalid role")
	}

	invite := Invite{
		Token:     uuid.NewString(),
		Role:      role,
		CreatedBy: createdBy,
		CreatedAt: time.Now().Unix(),
	}

	_, err := db.Exec(`INSERT INTO invites (token, role, created_by, used_by, created_at) VALUES (?, ?, ?, '', ?)`,
		invite.Token, invite.Role, invite.CreatedBy, invite.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// GetInvite retrieves a single Invite by token
func GetInvite(token string) (*Invite, error) {
	row := db.QueryRow(`SELECT token, role, created_by, used_by, created_at FROM invites WHERE token = ?`, token)
	var inv Invite
	err := row.Scan(&inv.Token, &inv.Role, &inv.CreatedBy, &inv.UsedBy, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvites retrieves all issued invites, newest first
func GetInvites() ([]Invite, error) {
	rows, err := db.Query(`SELECT token, role, created_by, used_by, created_at FROM invites ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []Invite
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.Token, &inv.Role, &inv.CreatedBy, &inv.UsedBy, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// RedeemInvite consumes a token during registration and returns the role
// it grants. A used or unknown token is an error.
func RedeemInvite(token, username string) (string, error) {
	invite, err := GetInvite(token)
	if err != nil {
		return "", err
	}
	if invite == nil {
		return "", errors.New("invalid invite token")
	}
	if invite.UsedBy != "" {
		return "", errors.New("invite token already used")
	}

	_, err = db.Exec(`UPDATE invites SET used_by = ? WHERE token = ?`, username, token)
	if err != nil {
		return "", err
	}
	return invite.Role, nil
}

// DeleteInvite revokes an unused invite
func DeleteInvite(token string) error {
	return DeleteRecord(`DELETE FROM invites WHERE token = ?`, token)
}
