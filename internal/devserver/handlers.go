package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"contactapp/cterm/internal/models"
)

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := decode(w, r, &reg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := hashPassword(reg.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid password")
		return
	}
	key := strings.ToLower(reg.Email)

	s.mu.Lock()
	if _, exists := s.byEmail[key]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	s.nextUserID++
	acct := &account{
		user:         models.User{ID: s.nextUserID, Name: reg.Name, Email: reg.Email},
		passwordHash: hash,
	}
	s.accounts[acct.user.ID] = acct
	s.byEmail[key] = acct.user.ID
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, acct.user)
}

// handleLogin answers with the bare token as text/plain.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decode(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(creds.Email))]
	var hash string
	if ok {
		hash = s.accounts[id].passwordHash
	}
	s.mu.RUnlock()

	if !ok || !checkPassword(creds.Password, hash) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token := newToken()
	s.mu.Lock()
	s.tokens[token] = id
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(token))
}

// handleUpdateProfile only touches fields that were sent non-empty.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if err := decode(w, r, &update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var hash string
	if update.Password != "" {
		var err error
		if hash, err = hashPassword(update.Password); err != nil {
			writeError(w, http.StatusBadRequest, "invalid password")
			return
		}
	}

	s.mu.Lock()
	acct, ok := s.accounts[userIDFrom(r.Context())]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if name := strings.TrimSpace(update.Name); name != "" {
		acct.user.Name = name
	}
	if hash != "" {
		acct.passwordHash = hash
	}
	user := acct.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	stored := s.contacts[userIDFrom(r.Context())]
	out := make([]models.Contact, len(stored))
	copy(out, stored)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	contact, ok := readContact(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r.Context())

	s.mu.Lock()
	s.nextContactID++
	contact.ID = models.Int64Ptr(s.nextContactID)
	s.contacts[userID] = append(s.contacts[userID], contact)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	contact, ok := readContact(w, r)
	if !ok {
		return
	}
	contact.ID = models.Int64Ptr(id)
	userID := userIDFrom(r.Context())

	s.mu.Lock()
	list := s.contacts[userID]
	index := indexOf(list, id)
	if index < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}
	list[index] = contact
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, contact)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r.Context())

	s.mu.Lock()
	list := s.contacts[userID]
	index := indexOf(list, id)
	if index < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}
	s.contacts[userID] = append(list[:index:index], list[index+1:]...)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func readContact(w http.ResponseWriter, r *http.Request) (models.Contact, bool) {
	var contact models.Contact
	if err := decode(w, r, &contact); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return contact, false
	}
	contact = contact.Normalized()
	if contact.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return contact, false
	}
	return contact, true
}

func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return 0, false
	}
	return id, true
}

func indexOf(list []models.Contact, id int64) int {
	for i, c := range list {
		if c.HasID() && *c.ID == id {
			return i
		}
	}
	return -1
}
