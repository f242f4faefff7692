package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// secretAlphabet is the character set keys are drawn from. Its length is a
// power of two so a masked random byte maps onto it without bias.
const secretAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*(-_=+)[]{}<>?/|~.,:;"

const (
	// SecretKeyLength is the number of characters in a generated key.
	SecretKeyLength = 50

	// SecretFileName is the per-installation secrets file inside the data directory.
	SecretFileName = "user.conf"

	secretFileComment = "# Add your custom settings here"
)

// GenerateSecretKey returns a random signing key of SecretKeyLength characters
// drawn uniformly from secretAlphabet.
func GenerateSecretKey() (string, error) {
	buf := make([]byte, SecretKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	key := make([]byte, SecretKeyLength)
	for i, b := range buf {
		key[i] = secretAlphabet[int(b)&(len(secretAlphabet)-1)]
	}
	return string(key), nil
}

// WriteSecretFile generates a fresh key and writes the secrets file at path,
// replacing any previous content. It returns the generated key.
func WriteSecretFile(path string) (string, error) {
	key, err := GenerateSecretKey()
	if err != nil {
		return "", err
	}

	content := fmt.Sprintf("SECRET_KEY = %q\n%s\n", key, secretFileComment)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", err
	}
	return key, nil
}

// LoadSecretKey reads the secrets file at path and returns the SECRET_KEY value.
func LoadSecretKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "SECRET_KEY") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key := strings.Trim(strings.TrimSpace(value), `"`)
		if key == "" {
			return "", fmt.Errorf("empty SECRET_KEY in %s", path)
		}
		return key, nil
	}
	return "", fmt.Errorf("no SECRET_KEY found in %s", path)
}

// EnsureSecretKey loads the signing key from the data directory, generating the
// secrets file first when it does not exist yet.
func EnsureSecretKey(dataDirectory string) (string, error) {
	path := filepath.Join(dataDirectory, SecretFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(dataDirectory, 0755); err != nil {
			return "", err
		}
		return WriteSecretFile(path)
	}
	return LoadSecretKey(path)
}
