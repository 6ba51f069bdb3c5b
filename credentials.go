package sigv4

import (
	"context"
	"fmt"
	"sync"
)

// Credentials represents the long-lived access key pair used for signing
type Credentials struct {
	// AccessKeyID is the access key identifier
	AccessKeyID string

	// SecretAccessKey is the secret key used for signing
	SecretAccessKey string
}

// Validate checks if the credentials are valid
func (c *Credentials) Validate() error {
	if c == nil {
		return ErrInvalidCredentials
	}

	if c.AccessKeyID == "" {
		return &ValidationError{
			Field: "AccessKeyID",
			Err:   fmt.Errorf("access key ID cannot be empty"),
		}
	}

	if c.SecretAccessKey == "" {
		return &ValidationError{
			Field: "SecretAccessKey",
			Err:   fmt.Errorf("secret access key cannot be empty"),
		}
	}

	return nil
}

// CredentialStore is an interface for looking up credentials by access key ID
// This is used on the server side for signature verification
type CredentialStore interface {
	// GetCredentials retrieves credentials for the given access key ID
	GetCredentials(ctx context.Context, accessKeyID string) (*Credentials, error)
}

// InMemoryCredentialStore is a simple in-memory implementation of CredentialStore
// This is primarily for testing and simple use cases
type InMemoryCredentialStore struct {
	mu          sync.RWMutex
	credentials map[string]*Credentials
}

// NewInMemoryCredentialStore creates a new in-memory credential store
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		credentials: make(map[string]*Credentials),
	}
}

// AddCredentials adds credentials to the store
func (s *InMemoryCredentialStore) AddCredentials(creds *Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.AccessKeyID] = creds
	return nil
}

// GetCredentials retrieves credentials for the given access key ID
func (s *InMemoryCredentialStore) GetCredentials(ctx context.Context, accessKeyID string) (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.credentials[accessKeyID]
	if !ok {
		return nil, ErrCredentialNotFound
	}

	return creds, nil
}

// RemoveCredentials removes credentials from the store
func (s *InMemoryCredentialStore) RemoveCredentials(accessKeyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.credentials, accessKeyID)
}
