package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User is the authenticated account as known to the client.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields. An empty Password keeps the
// current one.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// Initial returns the upper-cased first letter of the name, or "U" when unknown.
func (u User) Initial() string {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// DisplayName returns the name, or "User" when unset.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) == "" {
		return "User"
	}
	return u.Name
}

// Session is what the client remembers between runs after a successful login.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
