package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// ErrNotLoggedIn is returned when no credentials are stored.
var ErrNotLoggedIn = errors.New("not logged in")

const credentialsFile = "credentials.json"

// CredentialStore persists the identity provider's tokens between runs.
type CredentialStore interface {
	SaveCredentials(creds *sdk.Credentials) error
	// LoadCredentials returns ErrNotLoggedIn when nothing is stored.
	LoadCredentials() (*sdk.Credentials, error)
	DeleteCredentials() error
}

// FileStore keeps credentials in a JSON file readable only by the owner.
type FileStore struct {
	path string
}

var _ CredentialStore = (*FileStore)(nil)

// NewFileStore stores credentials under dir, creating it if needed.
// An empty dir selects ~/.cooked.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, ".cooked")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, credentialsFile)}, nil
}

// Path returns the credentials file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) SaveCredentials(creds *sdk.Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

func (s *FileStore) LoadCredentials() (*sdk.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	var creds sdk.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return &creds, nil
}

// DeleteCredentials removes the file. Deleting missing credentials is not an error.
func (s *FileStore) DeleteCredentials() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
