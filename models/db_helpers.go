package models

import (
	"database/sql"
)

// Executor abstracts *sql.DB and *sql.Tx so model helpers can run inside or
// outside a transaction.
type Executor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// ExistsChecker is a generic function to check if a record exists
func ExistsChecker(query string, args ...interface{}) (bool, error) {
	var exists int
	err := db.QueryRow(query, args...).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountRecords returns count from a query
func CountRecords(query string, args ...interface{}) (int64, error) {
	var count int64
	err := db.QueryRow(query, args...).Scan(&count)
	return count, err
}

// DeleteRecord executes a delete query
func DeleteRecord(query string, args ...interface{}) error {
	_, err := db.Exec(query, args...)
	return err
}
