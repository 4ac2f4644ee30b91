package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"contactapp/cterm/internal/models"
)

func newTestServer() *Server {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/auth/register", "", models.Registration{Name: "Ada", Email: email, Password: "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to register: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPost, "/auth/login", "", models.Credentials{Email: email, Password: "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to login: %d %s", rec.Code, rec.Body.String())
	}
	return rec.Body.String()
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestRegisterDuplicateIsCaseInsensitive(t *testing.T) {
	h := newTestServer().Handler()
	register(t, h, "ada@example.com")

	rec := do(t, h, http.MethodPost, "/auth/register", "", models.Registration{Name: "Ada", Email: "ADA@example.com", Password: "secret1"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for duplicate email, got %d", rec.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := newTestServer().Handler()
	register(t, h, "ada@example.com")

	rec := do(t, h, http.MethodPost, "/auth/login", "", models.Credentials{Email: "ada@example.com", Password: "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestContactsRequireToken(t *testing.T) {
	h := newTestServer().Handler()

	if rec := do(t, h, http.MethodGet, "/contacts", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/contacts", "bogus", nil); rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for unknown token, got %d", rec.Code)
	}
}

func TestContactsAreScopedPerUser(t *testing.T) {
	h := newTestServer().Handler()
	ada := register(t, h, "ada@example.com")
	bob := register(t, h, "bob@example.com")

	rec := do(t, h, http.MethodPost, "/contacts", ada, models.Contact{Name: "Carol", Email: "carol@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to create contact: %d", rec.Code)
	}
	var created models.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode contact: %v", err)
	}
	if !created.HasID() {
		t.Fatal("Expected created contact to have an id")
	}

	var list []models.Contact
	rec = do(t, h, http.MethodGet, "/contacts", bob, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected bob to see no contacts, got %d", len(list))
	}

	path := "/contacts/" + strconv.FormatInt(created.IDValue(), 10)
	if rec := do(t, h, http.MethodDelete, path, bob, nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting another user's contact, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, path, ada, nil); rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
}

func TestCreateContactRequiresName(t *testing.T) {
	h := newTestServer().Handler()
	token := register(t, h, "ada@example.com")

	rec := do(t, h, http.MethodPost, "/contacts", token, models.Contact{Email: "x@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestUpdateProfileKeepsPasswordWhenBlank(t *testing.T) {
	h := newTestServer().Handler()
	token := register(t, h, "ada@example.com")

	rec := do(t, h, http.MethodPut, "/auth/profile", token, models.ProfileUpdate{Name: "Ada Lovelace"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to update profile: %d", rec.Code)
	}
	var user models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to decode user: %v", err)
	}
	if user.Name != "Ada Lovelace" {
		t.Errorf("Expected updated name, got %q", user.Name)
	}

	rec = do(t, h, http.MethodPost, "/auth/login", "", models.Credentials{Email: "ada@example.com", Password: "secret1"})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected old password to still work, got %d", rec.Code)
	}
}

func TestPasswordsAreStoredHashed(t *testing.T) {
	srv := newTestServer()
	register(t, srv.Handler(), "ada@example.com")

	acct := srv.accounts[srv.byEmail["ada@example.com"]]
	if acct.passwordHash == "" || acct.passwordHash == "secret1" {
		t.Errorf("Expected a hashed password, got %q", acct.passwordHash)
	}
	if !checkPassword("secret1", acct.passwordHash) {
		t.Error("Expected hash to match the registered password")
	}
	if checkPassword("secret2", acct.passwordHash) {
		t.Error("Expected hash to reject a different password")
	}
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	h := newTestServer().Handler()
	token := register(t, h, "ada@example.com")

	rec := do(t, h, http.MethodPut, "/auth/profile", token, models.ProfileUpdate{Name: "Ada", Password: "newsecret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to update profile: %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/auth/login", "", models.Credentials{Email: "ada@example.com", Password: "secret1"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected old password to be rejected, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/auth/login", "", models.Credentials{Email: "ada@example.com", Password: "newsecret"})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected new password to work, got %d", rec.Code)
	}
}

func TestOversizedBodyIsRejected(t *testing.T) {
	h := newTestServer().Handler()
	token := register(t, h, "ada@example.com")

	body := `{"name": "` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for oversized body, got %d", rec.Code)
	}
}
