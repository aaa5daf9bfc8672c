package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strata3d/strata/pkg/client"
)

// ReadKeys reads the stored API developer keys, one per line. Lines that do
// not have the key format are skipped.
func ReadKeys(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if client.IsKey(line) {
			keys = append(keys, line)
		}
	}
	return keys, nil
}

// LookupKey resolves a login argument against the stored keys: a username
// selects that user's stored key, an empty argument selects the first
// stored key, and anything else is returned unchanged.
func LookupKey(keys []string, arg string) string {
	if arg == "" {
		if len(keys) > 0 {
			return keys[0]
		}
		return ""
	}
	for _, key := range keys {
		if keyUsername(key) == arg {
			return key
		}
	}
	return arg
}

// StoreKey writes a verified key to the front of the credentials file,
// dropping any previous key for the same user
func StoreKey(path, key string) error {
	keys, err := ReadKeys(path)
	if err != nil {
		return err
	}

	updated := []string{key}
	for _, k := range keys {
		if k == key || keyUsername(k) == keyUsername(key) {
			continue
		}
		updated = append(updated, k)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	content := strings.Join(updated, "\n") + "\n"
	return os.WriteFile(path, []byte(content), 0o600)
}

// RemoveKeys deletes the credentials file
func RemoveKeys(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// keyUsername returns the username part of an API developer key
func keyUsername(key string) string {
	return strings.SplitN(key, "//", 2)[0]
}
