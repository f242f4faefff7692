package models

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User roles, lowest to highest privilege
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// User is an account in the membership system. TokenVersion invalidates
// outstanding refresh tokens when bumped.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	TokenVersion uint   `json:"-"`
	Banned       bool   `json:"banned"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// ValidRole reports whether a role name is one of the defined roles
func ValidRole(role string) bool {
	return role == RoleViewer || role == RoleEditor || role == RoleAdmin
}

// CreateUser registers a new account. The very first account becomes an
// admin regardless of the requested role.
func CreateUser(username, password, role string) (*User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if !ValidRole(role) {
		return nil, errors.New("invalid role")
	}

	exists, err := UserExists(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("username already taken")
	}

	count, err := CountRecords(`SELECT COUNT(*) FROM users`)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = db.Exec(`INSERT INTO users (username, password, role, token_version, banned, created_at, updated_at)
	VALUES (?, ?, ?, 0, 0, ?, ?)`,
		user.Username, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername looks up an account. Declared as a variable so the
// auth middleware can be exercised without a database.
var FindUserByUsername = func(username string) (*User, error) {
	row := db.QueryRow(`SELECT username, password, role, token_version, banned, created_at, updated_at
	FROM users WHERE username = ?`, username)
	var u User
	err := row.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.TokenVersion, &u.Banned, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser verifies a username and password pair
func AuthenticateUser(username, password string) (*User, error) {
	user, err := FindUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid username or password")
	}
	if user.Banned {
		return nil, errors.New("account is banned")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid username or password")
	}
	return user, nil
}

// GetUsers retrieves all accounts
func GetUsers() ([]User, error) {
	rows, err := db.Query(`SELECT username, password, role, token_version, banned, created_at, updated_at
	FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.TokenVersion, &u.Banned, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserRole changes an account's role
func UpdateUserRole(username, role string) error {
	if !ValidRole(role) {
		return errors.New("invalid role")
	}
	_, err := db.Exec(`UPDATE users SET role = ?, updated_at = ? WHERE username = ?`,
		role, time.Now().Unix(), username)
	return err
}

// UpdateUserPassword sets a new password and invalidates existing tokens
func UpdateUserPassword(username, password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE users SET password = ?, token_version = token_version + 1, updated_at = ? WHERE username = ?`,
		string(hash), time.Now().Unix(), username)
	return err
}

// SetUserBanned bans or unbans an account. Banning also invalidates
// outstanding tokens.
func SetUserBanned(username string, banned bool) error {
	_, err := db.Exec(`UPDATE users SET banned = ?, token_version = token_version + 1, updated_at = ? WHERE username = ?`,
		banned, time.Now().Unix(), username)
	return err
}

// BumpTokenVersion invalidates every refresh token issued to an account
func BumpTokenVersion(username string) error {
	_, err := db.Exec(`UPDATE users SET token_version = token_version + 1, updated_at = ? WHERE username = ?`,
		time.Now().Unix(), username)
	return err
}

// DeleteUser removes an account and its configuration
func DeleteUser(username string) error {
	if err := DeleteRecord(`DELETE FROM user_configs WHERE username = ?`, username); err != nil {
		return err
	}
	return DeleteRecord(`DELETE FROM users WHERE username = ?`, username)
}

// UserExists checks if an account exists by username
func UserExists(username string) (bool, error) {
	return ExistsChecker(`SELECT 1 FROM users WHERE username = ?`, username)
}
