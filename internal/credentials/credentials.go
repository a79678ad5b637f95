// Package credentials keeps the book-search API key in the system keyring.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// ServiceName identifies shelf entries in the system keyring
	ServiceName = "shelf"

	// EnvAPIKey takes precedence over the keyring when set
	EnvAPIKey = "SHELF_BOOKS_API_KEY"

	apiKeyAccount = "books-api-key"
)

// ErrNotFound is returned when no API key is stored
var ErrNotFound = errors.New("api key not found")

// Store reads and writes the API key
type Store interface {
	APIKey() (string, error)
	SetAPIKey(key string) error
	DeleteAPIKey() error
}

// KeyringStore implements Store on top of the system keyring:
// Keychain on macOS, Credential Manager on Windows, Secret Service on Linux.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed store
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: ServiceName}
}

// APIKey returns the stored key
func (s *KeyringStore) APIKey() (string, error) {
	key, err := keyring.Get(s.service, apiKeyAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read api key: %w", err)
	}
	return key, nil
}

// SetAPIKey stores key, replacing any previous one
func (s *KeyringStore) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if err := keyring.Set(s.service, apiKeyAccount, key); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored key
func (s *KeyringStore) DeleteAPIKey() error {
	if err := keyring.Delete(s.service, apiKeyAccount); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the key from the environment, falling back to
// store. A missing key is not an error: the volumes endpoint works
// anonymously at a lower quota.
func ResolveAPIKey(store Store) (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}
	if store == nil {
		return "", nil
	}
	key, err := store.APIKey()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return key, err
}
