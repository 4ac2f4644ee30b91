package models

import (
	"strconv"
	"strings"
)

// Contact is a named record with an email and phone number. ID is assigned by the
// backend and is nil until the contact has been saved.
type Contact struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ContactList struct {
	Contacts []Contact `json:"contacts"`
}

func NewContact(name, email, phone string) *Contact {
	return &Contact{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
}

func (c Contact) HasID() bool {
	return c.ID != nil
}

// IDValue returns the backend id, or 0 for unsaved contacts.
func (c Contact) IDValue() int64 {
	if c.ID == nil {
		return 0
	}
	return *c.ID
}

// Key identifies a contact row for rendering. Unsaved contacts fall back to their
// position in the list since they have no stable identity yet.
func (c Contact) Key(index int) string {
	if c.ID != nil {
		return "id:" + strconv.FormatInt(*c.ID, 10)
	}
	return "idx:" + strconv.Itoa(index)
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (c Contact) Normalized() Contact {
	out := c
	out.Name = strings.TrimSpace(c.Name)
	out.Email = strings.TrimSpace(c.Email)
	out.Phone = strings.TrimSpace(c.Phone)
	if c.ID != nil {
		id := *c.ID
		out.ID = &id
	}
	return out
}

func (cl *ContactList) FindByID(id int64) *Contact {
	for i, contact := range cl.Contacts {
		if contact.ID != nil && *contact.ID == id {
			return &cl.Contacts[i]
		}
	}
	return nil
}

func (cl *ContactList) Len() int {
	return len(cl.Contacts)
}

// Int64Ptr is a small helper for building contacts with an id.
func Int64Ptr(v int64) *int64 {
	return &v
}
