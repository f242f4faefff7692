package models

import (
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestGetUserConfigDefaults(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM user_configs WHERE username = \?`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(nil))

	cfg, err := GetUserConfig("alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", cfg.Username)

	var desktop map[string]interface{}
	assert.NoError(t, json.Unmarshal(cfg.Desktop, &desktop))
	assert.Equal(t, float64(150), desktop["thumb_scale"])

	var mobile map[string]interface{}
	assert.NoError(t, json.Unmarshal(cfg.Mobile, &mobile))
	assert.Equal(t, float64(100), mobile["thumb_scale"])
}

func TestSetUserConfig(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM user_configs WHERE username = \?`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(nil))
	mock.ExpectExec(`INSERT INTO user_configs`).
		WithArgs("alice", `{"thumb_scale": 200}`, string(defaultMobileConfig), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := SetUserConfig("alice", DeviceDesktop, json.RawMessage(`{"thumb_scale": 200}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetUserConfigRejectsBadInput(t *testing.T) {
	_, restore := setupMockDB(t)
	defer restore()

	err := SetUserConfig("alice", DeviceDesktop, json.RawMessage(`{broken`))
	assert.EqualError(t, err, "settings must be valid JSON")

	err = SetUserConfig("alice", "tablet", json.RawMessage(`{}`))
	assert.Error(t, err)
}
