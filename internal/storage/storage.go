package storage

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"contactapp/cterm/internal/models"
	"contactapp/cterm/internal/pagination"
)

const (
	appDir          = ".cterm"
	sessionFile     = "session.json"
	preferencesFile = "preferences.json"
	secretFile      = "install.key"
)

// Storage keeps client state in a private data directory: the encrypted login
// session and user preferences.
type Storage struct {
	dataDir string
}

type Preferences struct {
	PageSize int `json:"page_size"`
}

func DefaultPreferences() *Preferences {
	return &Preferences{
		PageSize: pagination.DefaultPageSize,
	}
}

// DefaultDataDir is ~/.cterm.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDir), nil
}

// NewStorage opens dataDir, creating it if needed. An empty dataDir uses the default.
func NewStorage(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) DataDir() string {
	return s.dataDir
}

func (s *Storage) SaveSession(session *models.Session) error {
	if !session.Valid() {
		return errors.New("refusing to save session without token")
	}

	secret, err := s.installSecret()
	if err != nil {
		return err
	}

	sealed, err := sealJSON(session, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	return s.writeJSON(sessionFile, sealed)
}

// LoadSession returns nil with no error when no session has been saved.
func (s *Storage) LoadSession() (*models.Session, error) {
	var sealed EncryptedData
	found, err := s.readJSON(sessionFile, &sealed)
	if err != nil || !found {
		return nil, err
	}

	secret, err := s.installSecret()
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := openJSON(&sealed, secret, &session); err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}
	return &session, nil
}

func (s *Storage) ClearSession() error {
	err := os.Remove(s.path(sessionFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *Storage) SavePreferences(prefs *Preferences) error {
	return s.writeJSON(preferencesFile, prefs)
}

// LoadPreferences returns the defaults when nothing has been saved. A stored page
// size outside the offered options is replaced by the default.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.readJSON(preferencesFile, prefs); err != nil {
		return nil, err
	}

	if !validPageSize(prefs.PageSize) {
		prefs.PageSize = pagination.DefaultPageSize
	}
	return prefs, nil
}

func validPageSize(n int) bool {
	for _, option := range pagination.PageSizeOptions {
		if n == option {
			return true
		}
	}
	return false
}

// installSecret returns the random per-install key material, creating it on first use.
func (s *Storage) installSecret() ([]byte, error) {
	path := s.path(secretFile)

	secret, err := os.ReadFile(path)
	if err == nil && len(secret) == secretLength {
		return secret, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read install key: %w", err)
	}

	secret = make([]byte, secretLength)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("failed to generate install key: %w", err)
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("failed to write install key: %w", err)
	}
	return secret, nil
}

func (s *Storage) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Storage) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := os.WriteFile(s.path(name), data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *Storage) readJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return true, nil
}
