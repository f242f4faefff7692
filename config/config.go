package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// SettingsFileName is the optional YAML settings file inside the data directory.
const SettingsFileName = "settings.yaml"

// envPrefix is stripped from environment variables before mapping them onto
// config paths: PHOTON_SERVER_PORT -> server.port.
const envPrefix = "PHOTON_"

// Config holds all server configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Scan   ScanConfig   `koanf:"scan"`
	Media  MediaConfig  `koanf:"media"`
	Faces  FacesConfig  `koanf:"faces"`
	Auth   AuthConfig   `koanf:"auth"`
	Log    LogConfig    `koanf:"log"`

	// SecretKey is loaded from the secrets file, never from YAML or env.
	SecretKey string `koanf:"-"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `koanf:"host"`
	Port        int      `koanf:"port"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// ScanConfig holds filesystem scan settings.
type ScanConfig struct {
	Cron    string `koanf:"cron"`
	Workers int    `koanf:"workers"`
}

// MediaConfig holds thumbnail and media serving settings.
type MediaConfig struct {
	ThumbnailHeight  int    `koanf:"thumbnail_height"`
	JPEGQuality      int    `koanf:"jpeg_quality"`
	RotateQuality    int    `koanf:"rotate_quality"`
	ScanOutputFolder string `koanf:"scan_output_folder"`
}

// FacesConfig holds face detection and recognition settings.
type FacesConfig struct {
	Enabled           bool    `koanf:"enabled"`
	CascadeFile       string  `koanf:"cascade_file"`
	DistanceThreshold float64 `koanf:"distance_threshold"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	TokenExpiry    time.Duration `koanf:"token_expiry"`
	CaptchaEnabled bool          `koanf:"captcha_enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8008,
			CORSOrigins: []string{"http://localhost:8080"},
		},
		Scan: ScanConfig{
			Cron:    "0 3 * * *",
			Workers: 4,
		},
		Media: MediaConfig{
			ThumbnailHeight: 400,
			JPEGQuality:     75,
			RotateQuality:   95,
		},
		Faces: FacesConfig{
			Enabled:           true,
			CascadeFile:       "",
			DistanceThreshold: 0.5,
		},
		Auth: AuthConfig{
			TokenExpiry:    365 * 24 * time.Hour,
			CaptchaEnabled: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration in three layers: built-in defaults, the optional
// settings file in the data directory, then PHOTON_* environment variables.
// The signing key is loaded separately from the secrets file, which gets
// generated on first run.
func Load(dataDirectory string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	settingsPath := filepath.Join(dataDirectory, SettingsFileName)
	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", settingsPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// CORS origins may come in as a comma-separated env string
	if val, ok := k.Get("server.cors_origins").(string); ok && val != "" {
		var origins []string
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if err := k.Set("server.cors_origins", origins); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	key, err := EnsureSecretKey(dataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to provision secret key: %w", err)
	}
	cfg.SecretKey = key

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan workers must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Media.JPEGQuality < 1 || c.Media.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be 1-100, got %d", c.Media.JPEGQuality)
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("token expiry must be positive")
	}
	return nil
}

// envTransform maps PHOTON_SERVER_PORT onto server.port.
func envTransform(key string) string {
	key = strings.TrimPrefix(key, envPrefix)
	key = strings.ToLower(key)

	// Section prefixes become path segments; the remainder keeps its underscores.
	for _, section := range []string{"server", "scan", "media", "faces", "auth", "log"} {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
