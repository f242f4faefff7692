package filestore

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// Backend is where derived media lives: thumbnails, face crops, and scan
// crop output. Originals always stay on disk under their root folders.
type Backend interface {
	Save(path string, data []byte) error
	SaveReader(path string, reader io.Reader) error
	Load(path string) ([]byte, error)
	LoadReader(path string) (io.ReadCloser, error)
	Exists(path string) (bool, error)
	Delete(path string) error
	CreateDir(path string) error
	List(path string) ([]string, error)
}

// BackendConfig holds configuration for storage backends
type BackendConfig struct {
	BackendType string // "local", "sftp", "s3"

	// Local backend config
	LocalBasePath string

	// SFTP backend config
	SFTPHost     string
	SFTPPort     int
	SFTPUsername string
	SFTPPassword string
	SFTPKeyFile  string
	SFTPHostKey  string
	SFTPBasePath string

	// S3 backend config
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3BasePath string
}

// ParseBackendConfigFromEnv parses storage configuration from environment
// variables. The default is a local directory inside the data directory.
func ParseBackendConfigFromEnv(defaultLocalPath string) (*BackendConfig, error) {
	config := &BackendConfig{
		BackendType: getEnvOrDefault("PHOTON_CACHE_BACKEND", "local"),
	}

	switch config.BackendType {
	case "local":
		config.LocalBasePath = getEnvOrDefault("PHOTON_CACHE_LOCAL_PATH", defaultLocalPath)
	case "sftp":
		config.SFTPHost = getEnvOrDefault("PHOTON_CACHE_SFTP_HOST", "")
		if portStr := os.Getenv("PHOTON_CACHE_SFTP_PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid SFTP port: %w", err)
			}
			config.SFTPPort = port
		} else {
			config.SFTPPort = 22
		}
		config.SFTPUsername = getEnvOrDefault("PHOTON_CACHE_SFTP_USERNAME", "")
		config.SFTPPassword = getEnvOrDefault("PHOTON_CACHE_SFTP_PASSWORD", "")
		config.SFTPKeyFile = getEnvOrDefault("PHOTON_CACHE_SFTP_KEY_FILE", "")
		config.SFTPHostKey = getEnvOrDefault("PHOTON_CACHE_SFTP_HOST_KEY", "")
		config.SFTPBasePath = getEnvOrDefault("PHOTON_CACHE_SFTP_BASE_PATH", "")
	case "s3":
		config.S3Bucket = getEnvOrDefault("PHOTON_CACHE_S3_BUCKET", "")
		config.S3Region = getEnvOrDefault("PHOTON_CACHE_S3_REGION", "")
		config.S3Endpoint = getEnvOrDefault("PHOTON_CACHE_S3_ENDPOINT", "")
		config.S3BasePath = getEnvOrDefault("PHOTON_CACHE_S3_BASE_PATH", "")
	default:
		return nil, fmt.Errorf("unsupported cache backend type: %s", config.BackendType)
	}

	return config, nil
}

// Validate validates the backend configuration
func (c *BackendConfig) Validate() error {
	switch c.BackendType {
	case "local":
		if c.LocalBasePath == "" {
			return fmt.Errorf("local base path is required for local backend")
		}
	case "sftp":
		if c.SFTPHost == "" {
			return fmt.Errorf("SFTP host is required")
		}
		if c.SFTPUsername == "" {
			return fmt.Errorf("SFTP username is required")
		}
		if c.SFTPPassword == "" && c.SFTPKeyFile == "" {
			return fmt.Errorf("either SFTP password or key file is required")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required")
		}
		if c.S3Region == "" {
			return fmt.Errorf("S3 region is required")
		}
	default:
		return fmt.Errorf("unsupported cache backend type: %s", c.BackendType)
	}
	return nil
}

// CreateBackend creates a storage backend from the configuration
func (c *BackendConfig) CreateBackend() (Backend, error) {
	switch c.BackendType {
	case "local":
		return NewLocalAdapter(c.LocalBasePath), nil
	case "sftp":
		return NewSFTPAdapter(SFTPConfig{
			Host:     c.SFTPHost,
			Port:     c.SFTPPort,
			Username: c.SFTPUsername,
			Password: c.SFTPPassword,
			KeyFile:  c.SFTPKeyFile,
			HostKey:  c.SFTPHostKey,
			BasePath: c.SFTPBasePath,
		})
	case "s3":
		return NewS3Adapter(S3Config{
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3Endpoint,
			BasePath: c.S3BasePath,
		})
	default:
		return nil, fmt.Errorf("unsupported cache backend type: %s", c.BackendType)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
