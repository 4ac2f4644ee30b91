package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"contactapp/cterm/internal/audit"
	"contactapp/cterm/internal/events"
	"contactapp/cterm/internal/models"
)

// ContactService is the contact store used by the views. Add and Update publish a
// change notification once the backend has accepted them.
type ContactService struct {
	client *Client
	feed   *events.ChangeFeed
	logger *slog.Logger

	journal *audit.Journal
	user    func() string
}

func NewContactService(client *Client, feed *events.ChangeFeed, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		client: client,
		feed:   feed,
		logger: logger,
	}
}

func (s *ContactService) FetchAll(ctx context.Context) ([]models.Contact, error) {
	return s.client.ListContacts(ctx)
}

// SetJournal records successful writes to journal. user names the account the
// entries are attributed to.
func (s *ContactService) SetJournal(journal *audit.Journal, user func() string) {
	s.journal = journal
	s.user = user
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteContact(ctx, id); err != nil {
		return err
	}
	s.logger.Info("contact deleted", slog.Int64("contact_id", id))
	s.record(audit.ActionDelete, id, nil)
	return nil
}

func (s *ContactService) Add(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	created, err := s.client.CreateContact(ctx, contact.Normalized())
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact added", slog.Int64("contact_id", created.IDValue()))
	s.record(audit.ActionCreate, created.IDValue(), audit.ContactDetails(created.Name, created.Email, created.Phone))
	s.notify()
	return created, nil
}

func (s *ContactService) Update(ctx context.Context, id int64, contact models.Contact) (*models.Contact, error) {
	updated, err := s.client.UpdateContact(ctx, id, contact.Normalized())
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact updated", slog.Int64("contact_id", id))
	s.record(audit.ActionUpdate, id, audit.ContactDetails(updated.Name, updated.Email, updated.Phone))
	s.notify()
	return updated, nil
}

// Changes exposes the change feed contacts views subscribe to.
func (s *ContactService) Changes() *events.ChangeFeed {
	return s.feed
}

// RecordExport notes a completed export in the journal, if one is set.
func (s *ContactService) RecordExport(path string, count int) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordExport(s.currentUser(), path, count); err != nil {
		s.logger.Warn("failed to record export", slog.Any("error", err))
	}
}

func (s *ContactService) record(action audit.Action, id int64, details map[string]string) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Record(action, id, s.currentUser(), details); err != nil {
		s.logger.Warn("failed to record contact change",
			slog.String("action", string(action)),
			slog.Any("error", err))
	}
}

func (s *ContactService) currentUser() string {
	if s.user == nil {
		return ""
	}
	return s.user()
}

func (s *ContactService) notify() {
	if s.feed != nil {
		s.feed.Publish()
	}
}

// SessionStore persists the logged-in session between runs.
type SessionStore interface {
	SaveSession(session *models.Session) error
	LoadSession() (*models.Session, error)
	ClearSession() error
}

// AuthService keeps the client token and the persisted session in step.
type AuthService struct {
	client *Client
	store  SessionStore
	logger *slog.Logger

	mu      sync.RWMutex
	session *models.Session
	names   map[string]string
}

func NewAuthService(client *Client, store SessionStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		client: client,
		store:  store,
		logger: logger,
		names:  make(map[string]string),
	}
}

// Restore loads a previously saved session. It reports whether one was found.
func (a *AuthService) Restore() (bool, error) {
	if a.store == nil {
		return false, nil
	}
	session, err := a.store.LoadSession()
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.Valid() {
		return false, nil
	}
	a.setSession(session)
	return true, nil
}

func (a *AuthService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	user, err := a.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.names[strings.ToLower(reg.Email)] = reg.Name
	a.mu.Unlock()

	a.logger.Info("account registered", slog.String("email", reg.Email))
	return user, nil
}

// Login authenticates and remembers the session. The backend only returns a token,
// so the user's name comes from a registration made in this run, the previously
// saved session for the same email, or the email's local part.
func (a *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	token, err := a.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     token,
		User:      models.User{Email: creds.Email, Name: a.knownName(creds.Email)},
		CreatedAt: time.Now(),
	}
	a.setSession(session)
	a.persist(session)

	a.logger.Info("logged in", slog.String("email", creds.Email))
	return session, nil
}

// UpdateProfile sends the new name and optional password, then refreshes the
// stored user. The email is never changed.
func (a *AuthService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	if !a.IsAuthenticated() {
		return nil, NewAPIError(ErrNotAuthenticated, "no session token", nil)
	}

	update.Name = strings.TrimSpace(update.Name)
	if strings.TrimSpace(update.Password) == "" {
		update.Password = ""
	}

	if _, err := a.client.UpdateProfile(ctx, update); err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.session == nil {
		a.mu.Unlock()
		return nil, NewAPIError(ErrNotAuthenticated, "session ended during update", nil)
	}
	a.session.User.Name = update.Name
	session := *a.session
	a.mu.Unlock()

	a.persist(&session)
	a.logger.Info("profile updated", slog.String("email", session.User.Email))
	return &session.User, nil
}

func (a *AuthService) Logout() error {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	a.client.SetToken("")

	if a.store != nil {
		if err := a.store.ClearSession(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
	}
	a.logger.Info("logged out")
	return nil
}

// CurrentUser returns a snapshot of the logged-in user.
func (a *AuthService) CurrentUser() models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return models.User{}
	}
	return a.session.User
}

func (a *AuthService) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.Valid()
}

func (a *AuthService) setSession(session *models.Session) {
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
	a.client.SetToken(session.Token)
}

func (a *AuthService) persist(session *models.Session) {
	if a.store == nil {
		return
	}
	if err := a.store.SaveSession(session); err != nil {
		a.logger.Warn("failed to save session", slog.Any("error", err))
	}
}

func (a *AuthService) knownName(email string) string {
	a.mu.RLock()
	name, ok := a.names[strings.ToLower(email)]
	a.mu.RUnlock()
	if ok && name != "" {
		return name
	}

	if a.store != nil {
		if previous, err := a.store.LoadSession(); err == nil && previous != nil &&
			strings.EqualFold(previous.User.Email, email) && previous.User.Name != "" {
			return previous.User.Name
		}
	}

	return nameFromEmail(email)
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
