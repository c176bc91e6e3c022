package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTokenManager(t *testing.T) {
	// Use mock manager for reliable testing
	manager, mockStore := NewMockManager()

	cred := &Credential{
		Label:        "work",
		Token:        "apify_api_test1234567890abcdef",
		Username:     "testuser",
		LastModified: time.Now(),
	}

	err := manager.Store(cred)
	if err != nil {
		t.Errorf("Failed to store credential: %v", err)
	}

	// Test retrieving the credential
	retrieved, err := manager.Retrieve("work")
	if err != nil {
		t.Errorf("Failed to retrieve credential: %v", err)
	}

	if retrieved.Label != cred.Label {
		t.Errorf("Label mismatch: got %s, want %s", retrieved.Label, cred.Label)
	}
	if retrieved.Token != cred.Token {
		t.Errorf("Token mismatch: got %s, want %s", retrieved.Token, cred.Token)
	}
	if retrieved.Username != cred.Username {
		t.Errorf("Username mismatch: got %s, want %s", retrieved.Username, cred.Username)
	}

	// Test listing credentials
	creds, err := manager.List()
	if err != nil {
		t.Errorf("Failed to list credentials: %v", err)
	}
	if len(creds) == 0 {
		t.Error("Expected at least one credential in list")
	}

	// Test sanitization
	sanitized := Sanitize(cred)
	if sanitized.Token == cred.Token {
		t.Error("Token should be masked")
	}
	if sanitized.Label != cred.Label {
		t.Error("Label should not be masked")
	}

	// Test deletion
	err = manager.Delete("work")
	if err != nil {
		t.Errorf("Failed to delete credential: %v", err)
	}

	// Verify deletion
	_, err = manager.Retrieve("work")
	if err == nil {
		t.Error("Expected error retrieving deleted credential")
	}

	// Verify mock store state
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 credentials after deletion, got %d", mockStore.Count())
	}
}

func TestManagerDefaultLabel(t *testing.T) {
	manager, _ := NewMockManager()

	// A credential stored without a label lands under the default label
	err := manager.Store(&Credential{Token: "apify_api_defaulttoken123456"})
	if err != nil {
		t.Fatalf("Failed to store credential: %v", err)
	}

	retrieved, err := manager.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve default credential: %v", err)
	}
	if retrieved.Label != DefaultLabel {
		t.Errorf("Expected label %q, got %q", DefaultLabel, retrieved.Label)
	}
}

func TestManagerRejectsEmptyToken(t *testing.T) {
	manager, _ := NewMockManager()

	if err := manager.Store(&Credential{Label: "work"}); err == nil {
		t.Error("Expected error storing credential without a token")
	}
	if err := manager.Store(nil); err == nil {
		t.Error("Expected error storing nil credential")
	}
}

func TestEncryptedFileStore(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_token.enc")

	t.Setenv("TTSCRAPER_PASSPHRASE", "test_passphrase_123")

	store, err := NewEncryptedFileStore(tempFile)
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	cred := &Credential{
		Label: "encrypted",
		Token: "apify_api_encrypted_secret_value",
	}

	// Store
	err = store.Store(cred)
	if err != nil {
		t.Errorf("Failed to store in encrypted file: %v", err)
	}

	// Retrieve
	retrieved, err := store.Retrieve("encrypted")
	if err != nil {
		t.Errorf("Failed to retrieve from encrypted file: %v", err)
	}

	if retrieved.Token != cred.Token {
		t.Errorf("Token mismatch after encryption/decryption")
	}

	// Verify file is actually encrypted
	fileContent, err := os.ReadFile(tempFile)
	if err != nil {
		t.Fatal(err)
	}

	// File should not contain the plaintext token
	if contains(fileContent, []byte("apify_api_encrypted_secret_value")) {
		t.Error("File contains plaintext token")
	}
}

func TestEncryptedFileStoreDeleteRemovesEmptyFile(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_token.enc")

	t.Setenv("TTSCRAPER_PASSPHRASE", "test_passphrase_123")

	store, err := NewEncryptedFileStore(tempFile)
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	if err := store.Store(&Credential{Label: "only", Token: "apify_api_tok_123456"}); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}
	if err := store.Delete("only"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	if _, err := os.Stat(tempFile); !os.IsNotExist(err) {
		t.Error("Expected encrypted file removed after last credential deleted")
	}
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("APIFY_API_TOKEN", "apify_api_env_token_0987654321")

	store := NewEnvironmentStore()

	cred, err := store.Retrieve("")
	if err != nil {
		t.Errorf("Failed to retrieve from environment: %v", err)
	}

	if cred.Token != "apify_api_env_token_0987654321" {
		t.Errorf("Token mismatch: got %s", cred.Token)
	}
	if cred.Label != DefaultLabel {
		t.Errorf("Expected default label, got %s", cred.Label)
	}

	// Test that store is not supported
	err = store.Store(&Credential{})
	if err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}
	err = store.Delete("anything")
	if err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment delete")
	}
}

func TestEnvironmentStoreEmpty(t *testing.T) {
	t.Setenv("APIFY_API_TOKEN", "")

	store := NewEnvironmentStore()

	if _, err := store.Retrieve(""); err != ErrTokenNotFound {
		t.Errorf("Expected ErrTokenNotFound, got %v", err)
	}
	if store.Exists("") {
		t.Error("Expected Exists to be false without the environment variable")
	}
}

func TestRealManagerWithEncryptedStore(t *testing.T) {
	tempDir := t.TempDir()

	t.Setenv("TTSCRAPER_PASSPHRASE", "test_passphrase_real_manager")

	// Manager with only the encrypted file store (most reliable for testing)
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(tempDir, "token.enc"))
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	manager := NewMockManagerWithStores(encryptedStore)

	cred := &Credential{
		Label:        "real",
		Token:        "apify_api_real_token_abcdef",
		LastModified: time.Now(),
	}

	err = manager.Store(cred)
	if err != nil {
		t.Fatalf("Failed to store credential: %v", err)
	}

	creds, err := manager.List()
	if err != nil {
		t.Fatalf("Failed to list credentials: %v", err)
	}
	if len(creds) != 1 {
		t.Errorf("Expected 1 credential in list, got %d", len(creds))
	}

	retrieved, err := manager.Retrieve("real")
	if err != nil {
		t.Fatalf("Failed to retrieve credential: %v", err)
	}

	if retrieved.Token != cred.Token {
		t.Errorf("Token mismatch: got %s, want %s", retrieved.Token, cred.Token)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	// Test empty store
	creds, err := store.List()
	if err != nil {
		t.Errorf("Failed to list empty store: %v", err)
	}
	if len(creds) != 0 {
		t.Errorf("Expected 0 credentials, got %d", len(creds))
	}

	cred := &Credential{
		Label: "mock",
		Token: "apify_api_mock_token",
	}

	err = store.Store(cred)
	if err != nil {
		t.Errorf("Failed to store credential: %v", err)
	}

	// Verify count
	if store.Count() != 1 {
		t.Errorf("Expected 1 credential, got %d", store.Count())
	}

	// Test exists
	if !store.Exists("mock") {
		t.Error("Credential should exist")
	}

	// Test error injection
	store.ListError = fmt.Errorf("injected error")
	_, err = store.List()
	if err == nil || err.Error() != "injected error" {
		t.Error("Expected injected error")
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"apify_api_AbCdEfGhIjKl", "ap...Kl"},
		{"short", "********"},
		{"", "********"},
		{"12345678", "********"},
		{"123456789", "12...89"},
	}

	for _, tt := range tests {
		if got := MaskToken(tt.in); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func contains(data []byte, substr []byte) bool {
	for i := 0; i <= len(data)-len(substr); i++ {
		if string(data[i:i+len(substr)]) == string(substr) {
			return true
		}
	}
	return false
}
