package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// UserConfig stores per-account UI settings as raw JSON, one document
// per device class
type UserConfig struct {
	Username  string          `json:"username"`
	Desktop   json.RawMessage `json:"desktop"`
	Mobile    json.RawMessage `json:"mobile"`
	UpdatedAt int64           `json:"updated_at"`
}

// Device classes accepted by SetUserConfig
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
)

var defaultDesktopConfig = json.RawMessage(`{"thumb_scale": 150, "show_notes": true, "sort_order": "taken_desc"}`)
var defaultMobileConfig = json.RawMessage(`{"thumb_scale": 100, "show_notes": false, "sort_order": "taken_desc"}`)

// GetUserConfig retrieves an account's UI settings, falling back to the
// defaults when none were saved yet
func GetUserConfig(username string) (*UserConfig, error) {
	row := db.QueryRow(`SELECT username, desktop, mobile, updated_at FROM user_configs WHERE username = ?`, username)
	var cfg UserConfig
	var desktop, mobile string
	err := row.Scan(&cfg.Username, &desktop, &mobile, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return &UserConfig{
			Username: username,
			Desktop:  defaultDesktopConfig,
			Mobile:   defaultMobileConfig,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	cfg.Desktop = json.RawMessage(desktop)
	cfg.Mobile = json.RawMessage(mobile)
	return &cfg, nil
}

// SetUserConfig saves one device class of an account's UI settings
func SetUserConfig(username, device string, settings json.RawMessage) error {
	if !json.Valid(settings) {
		return errors.New("settings must be valid JSON")
	}

	current, err := GetUserConfig(username)
	if err != nil {
		return err
	}
	switch device {
	case DeviceDesktop:
		current.Desktop = settings
	case DeviceMobile:
		current.Mobile = settings
	default:
		return errors.New("unknown device class")
	}

	_, err = db.Exec(`
	INSERT INTO user_configs (username, desktop, mobile, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(username) DO UPDATE SET desktop = excluded.desktop, mobile = excluded.mobile, updated_at = excluded.updated_at`,
		username, string(current.Desktop), string(current.Mobile), time.Now().Unix())
	return err
}
