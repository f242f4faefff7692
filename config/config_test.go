package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	assert.NoError(t, err)
	assert.Equal(t, 8008, cfg.Server.Port)
	assert.Equal(t, "0 3 * * *", cfg.Scan.Cron)
	assert.Equal(t, 75, cfg.Media.JPEGQuality)
	assert.Len(t, cfg.SecretKey, SecretKeyLength)
}

func TestLoadSettingsFileOverride(t *testing.T) {
	dir := t.TempDir()
	settings := []byte("server:\n  port: 9090\nmedia:\n  jpeg_quality: 60\n")
	assert.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), settings, 0644))

	cfg, err := Load(dir)
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Media.JPEGQuality)
	// Untouched values keep their defaults
	assert.Equal(t, 4, cfg.Scan.Workers)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	settings := []byte("server:\n  port: 9090\n")
	assert.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), settings, 0644))

	t.Setenv("PHOTON_SERVER_PORT", "7070")
	t.Setenv("PHOTON_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(dir)
	assert.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadInvalidPort(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PHOTON_SERVER_PORT", "-1")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadProvisionsSecretOnce(t *testing.T) {
	dir := t.TempDir()

	first, err := Load(dir)
	assert.NoError(t, err)
	second, err := Load(dir)
	assert.NoError(t, err)
	assert.Equal(t, first.SecretKey, second.SecretKey)
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PHOTON_SERVER_PORT", "server.port"},
		{"PHOTON_SERVER_CORS_ORIGINS", "server.cors_origins"},
		{"PHOTON_MEDIA_JPEG_QUALITY", "media.jpeg_quality"},
		{"PHOTON_FACES_CASCADE_FILE", "faces.cascade_file"},
		{"PHOTON_LOG_LEVEL", "log.level"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, envTransform(tt.in), tt.in)
	}
}
