package filestore

import (
	"io"
	"os"
	"path/filepath"
)

// LocalAdapter implements Backend on the local file system
type LocalAdapter struct {
	basePath string
}

// NewLocalAdapter creates a new local file system adapter
func NewLocalAdapter(basePath string) *LocalAdapter {
	return &LocalAdapter{basePath: basePath}
}

// Save saves data to the specified path
func (l *LocalAdapter) Save(path string, data []byte) error {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

// SaveReader saves data from a reader to the specified path
func (l *LocalAdapter) SaveReader(path string, reader io.Reader) error {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	return err
}

// Load loads data from the specified path
func (l *LocalAdapter) Load(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.basePath, path))
}

// LoadReader returns a reader for the specified path
func (l *LocalAdapter) LoadReader(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(l.basePath, path))
}

// Exists checks if a file exists at the specified path
func (l *LocalAdapter) Exists(path string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.basePath, path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete deletes a file at the specified path
func (l *LocalAdapter) Delete(path string) error {
	return os.Remove(filepath.Join(l.basePath, path))
}

// CreateDir creates a directory at the specified path
func (l *LocalAdapter) CreateDir(path string) error {
	return os.MkdirAll(filepath.Join(l.basePath, path), 0755)
}

// List lists files in the specified directory
func (l *LocalAdapter) List(path string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.basePath, path))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
