package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contactapp/cterm/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return s
}

func TestNewStorageCreatesPrivateDir(t *testing.T) {
	s := newTestStorage(t)

	info, err := os.Stat(s.DataDir())
	if err != nil {
		t.Fatalf("Data dir missing: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("Expected 0700 data dir, got %v", info.Mode().Perm())
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	session, err := s.LoadSession()
	if err != nil || session != nil {
		t.Fatalf("Expected no session initially, got %v, %v", session, err)
	}

	saved := &models.Session{
		Token:     "token-123",
		User:      models.User{Name: "Ada", Email: "ada@example.com"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.SaveSession(saved); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	loaded, err := s.LoadSession()
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if loaded.Token != saved.Token || loaded.User != saved.User || !loaded.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("Loaded session differs: %+v", loaded)
	}

	if err := s.ClearSession(); err != nil {
		t.Fatalf("Failed to clear session: %v", err)
	}
	if loaded, _ := s.LoadSession(); loaded != nil {
		t.Error("Expected no session after clear")
	}
	if err := s.ClearSession(); err != nil {
		t.Errorf("Clearing twice should not fail: %v", err)
	}
}

func TestSessionIsEncryptedOnDisk(t *testing.T) {
	s := newTestStorage(t)
	if err := s.SaveSession(&models.Session{Token: "very-secret-token", User: models.User{Email: "ada@example.com"}}); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(s.DataDir(), sessionFile))
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}
	if strings.Contains(string(raw), "very-secret-token") || strings.Contains(string(raw), "ada@example.com") {
		t.Error("Session file contains plaintext")
	}

	info, err := os.Stat(filepath.Join(s.DataDir(), secretFile))
	if err != nil {
		t.Fatalf("Install key missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 install key, got %v", info.Mode().Perm())
	}
}

func TestSessionWithReplacedKeyFails(t *testing.T) {
	s := newTestStorage(t)
	if err := s.SaveSession(&models.Session{Token: "t"}); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	other := make([]byte, secretLength)
	if err := os.WriteFile(filepath.Join(s.DataDir(), secretFile), other, 0600); err != nil {
		t.Fatalf("Failed to replace key: %v", err)
	}

	if _, err := s.LoadSession(); !errors.Is(err, ErrCorrupted) {
		t.Errorf("Expected ErrCorrupted, got %v", err)
	}
}

func TestSaveSessionRequiresToken(t *testing.T) {
	s := newTestStorage(t)
	if err := s.SaveSession(&models.Session{}); err == nil {
		t.Error("Expected error for session without token")
	}
	if err := s.SaveSession(nil); err == nil {
		t.Error("Expected error for nil session")
	}
}

func TestPreferences(t *testing.T) {
	s := newTestStorage(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("Failed to load preferences: %v", err)
	}
	if prefs.PageSize != 10 {
		t.Errorf("Expected default page size 10, got %d", prefs.PageSize)
	}

	prefs.PageSize = 50
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("Failed to save preferences: %v", err)
	}
	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("Failed to load preferences: %v", err)
	}
	if loaded.PageSize != 50 {
		t.Errorf("Unexpected preferences: %+v", loaded)
	}

	loaded.PageSize = 7
	if err := s.SavePreferences(loaded); err != nil {
		t.Fatalf("Failed to save preferences: %v", err)
	}
	if reloaded, _ := s.LoadPreferences(); reloaded.PageSize != 10 {
		t.Errorf("Expected unsupported page size to fall back to 10, got %d", reloaded.PageSize)
	}
}

func TestSealOpen(t *testing.T) {
	secret := []byte("install-secret")
	sealed, err := seal([]byte("hello"), secret)
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}

	plaintext, err := open(sealed, secret)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if string(plaintext) != "hello" {
		t.Errorf("Expected hello, got %q", plaintext)
	}

	if _, err := open(sealed, []byte("other")); !errors.Is(err, ErrCorrupted) {
		t.Errorf("Expected ErrCorrupted for wrong secret, got %v", err)
	}
	if _, err := open(nil, secret); err == nil {
		t.Error("Expected error for nil data")
	}
}

func TestLoadPreferencesIgnoresUnknownFields(t *testing.T) {
	s := newTestStorage(t)
	data := []byte(`{"page_size": 20, "theme": "catppuccin"}`)
	if err := os.WriteFile(s.path(preferencesFile), data, 0600); err != nil {
		t.Fatalf("Failed to write preferences: %v", err)
	}

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("Failed to load preferences: %v", err)
	}
	if prefs.PageSize != 20 {
		t.Errorf("Expected page size 20, got %d", prefs.PageSize)
	}
}
