package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements TokenStore by reading APIFY_API_TOKEN. It is
// read-only: tokens supplied through the environment are managed by the
// user's shell or .env file, not by this tool.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets the token from the environment
func (e *EnvironmentStore) Retrieve(label string) (*Credential, error) {
	token := os.Getenv("APIFY_API_TOKEN")
	if token == "" {
		return nil, ErrTokenNotFound
	}

	// The environment carries no label of its own
	if label == "" {
		label = DefaultLabel
	}

	return &Credential{
		Label:        label,
		Token:        token,
		LastModified: time.Now(),
	}, nil
}

// List returns a single credential if the environment variable is set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(label string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment token is set
func (e *EnvironmentStore) Exists(label string) bool {
	return os.Getenv("APIFY_API_TOKEN") != ""
}
