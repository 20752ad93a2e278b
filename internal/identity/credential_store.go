package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CredentialStore handles persistent storage of the bearer credential as a
// small JSON file. The file is the durable analogue of the browser-local
// token key: it survives restarts and is shared by concurrent processes.
type CredentialStore struct {
	path string
}

type storedCredential struct {
	Token string `json:"token"`
}

// NewCredentialStore creates a CredentialStore at the given path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Path returns the file path where the credential is stored.
func (c *CredentialStore) Path() string {
	return c.path
}

// Load reads the stored credential. A missing file returns "" with no error
// (logged out); a corrupt file is also treated as logged out.
func (c *CredentialStore) Load() (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading credential file: %w", err)
	}

	var cred storedCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		return "", nil
	}

	return cred.Token, nil
}

// Save writes the credential to disk, creating the parent directory if needed.
func (c *CredentialStore) Save(token string) error {
	if token == "" {
		return errors.New("cannot save empty credential")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}

	data, err := json.MarshalIndent(storedCredential{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}

	return nil
}

// Delete removes the stored credential. Returns nil if the file does not exist.
func (c *CredentialStore) Delete() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}
