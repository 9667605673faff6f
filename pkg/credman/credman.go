// Package credman stores the Soulseek account password outside the YAML
// config: in the operating system keyring when one is available, with an
// encrypted-file fallback otherwise.
package credman

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const service = "toolcrate"

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

// Manager reads and writes the stored credential for a username.
type Manager struct {
	fallbackDir string
}

// New creates a Manager. fallbackDir is where the encrypted-file
// fallback lives; empty means ~/.config/toolcrate.
func New(fallbackDir string) *Manager {
	if fallbackDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			fallbackDir = filepath.Join(home, ".config", "toolcrate")
		} else {
			fallbackDir = "."
		}
	}
	return &Manager{fallbackDir: fallbackDir}
}

// Set stores the password for username, preferring the OS keyring.
func (m *Manager) Set(username, password string) error {
	if err := keyringSet(service, username, password); err == nil {
		return nil
	}
	store := newFileStore(m.fallbackDir)
	if err := store.set(username, password); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// Get returns the stored password for username. The keyring is consulted
// first, then the file fallback.
func (m *Manager) Get(username string) (string, error) {
	if pw, err := keyringGet(service, username); err == nil {
		return pw, nil
	}
	pw, err := newFileStore(m.fallbackDir).get(username)
	if err != nil {
		return "", fmt.Errorf("credential for %q not found: %w", username, err)
	}
	return pw, nil
}

// Delete removes the stored password from both backends. Missing entries
// are not an error.
func (m *Manager) Delete(username string) error {
	kerr := keyringDelete(service, username)
	ferr := newFileStore(m.fallbackDir).delete(username)
	if kerr != nil && ferr != nil {
		return fmt.Errorf("delete credential: %w", ferr)
	}
	return nil
}
