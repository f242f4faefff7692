package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecretKeyLength(t *testing.T) {
	key, err := GenerateSecretKey()
	assert.NoError(t, err)
	assert.Len(t, key, SecretKeyLength)
}

func TestGenerateSecretKeyAlphabet(t *testing.T) {
	for i := 0; i < 20; i++ {
		key, err := GenerateSecretKey()
		assert.NoError(t, err)
		for _, r := range key {
			assert.Contains(t, secretAlphabet, string(r))
		}
	}
}

func TestGenerateSecretKeyUniqueness(t *testing.T) {
	first, err := GenerateSecretKey()
	assert.NoError(t, err)
	second, err := GenerateSecretKey()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGenerateSecretKeyDistribution(t *testing.T) {
	// With 2000 keys of 50 chars each character should land near
	// 100000/64 = 1562 hits. Allow a generous band around that.
	counts := make(map[rune]int)
	const runs = 2000
	for i := 0; i < runs; i++ {
		key, err := GenerateSecretKey()
		assert.NoError(t, err)
		for _, r := range key {
			counts[r]++
		}
	}

	assert.Len(t, counts, len(secretAlphabet))
	expected := runs * SecretKeyLength / len(secretAlphabet)
	for r, count := range counts {
		assert.Greater(t, count, expected/2, "character %q drawn too rarely", r)
		assert.Less(t, count, expected*2, "character %q drawn too often", r)
	}
}

func TestWriteSecretFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), SecretFileName)

	key, err := WriteSecretFile(path)
	assert.NoError(t, err)
	assert.Len(t, key, SecretKeyLength)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Regexp(t, regexp.MustCompile(`^SECRET_KEY = ".{50}"$`), lines[0])
	assert.Equal(t, "# Add your custom settings here", lines[1])
}

func TestWriteSecretFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), SecretFileName)

	first, err := WriteSecretFile(path)
	assert.NoError(t, err)

	// Append extra content that a second run must not preserve
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	assert.NoError(t, err)
	_, err = f.WriteString("leftover = true\n")
	assert.NoError(t, err)
	f.Close()

	second, err := WriteSecretFile(path)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), first)
	assert.NotContains(t, string(data), "leftover")
	assert.Contains(t, string(data), second)
}

func TestLoadSecretKeyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SecretFileName)

	written, err := WriteSecretFile(path)
	assert.NoError(t, err)

	loaded, err := LoadSecretKey(path)
	assert.NoError(t, err)
	assert.Equal(t, written, loaded)
}

func TestLoadSecretKeyMissingAssignment(t *testing.T) {
	path := filepath.Join(t.TempDir(), SecretFileName)
	assert.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0600))

	_, err := LoadSecretKey(path)
	assert.Error(t, err)
}

func TestEnsureSecretKeyCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	key, err := EnsureSecretKey(dir)
	assert.NoError(t, err)
	assert.Len(t, key, SecretKeyLength)

	_, err = os.Stat(filepath.Join(dir, SecretFileName))
	assert.NoError(t, err)

	// Second call loads the existing key instead of regenerating
	again, err := EnsureSecretKey(dir)
	assert.NoError(t, err)
	assert.Equal(t, key, again)
}
