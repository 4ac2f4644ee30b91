package models

import "testing"

func TestNewContactTrimsFields(t *testing.T) {
	c := NewContact("  Ada Lovelace ", " ada@example.com", "1234567890  ")

	if c.Name != "Ada Lovelace" {
		t.Errorf("Expected trimmed name, got '%s'", c.Name)
	}
	if c.Email != "ada@example.com" {
		t.Errorf("Expected trimmed email, got '%s'", c.Email)
	}
	if c.Phone != "1234567890" {
		t.Errorf("Expected trimmed phone, got '%s'", c.Phone)
	}
	if c.HasID() {
		t.Error("New contact should not have an id")
	}
}

func TestContactKey(t *testing.T) {
	saved := Contact{ID: Int64Ptr(42), Name: "Saved"}
	unsaved := Contact{Name: "Unsaved"}

	if got := saved.Key(3); got != "id:42" {
		t.Errorf("Expected key 'id:42', got '%s'", got)
	}
	if got := unsaved.Key(3); got != "idx:3" {
		t.Errorf("Expected key 'idx:3', got '%s'", got)
	}
	if saved.IDValue() != 42 {
		t.Errorf("Expected id 42, got %d", saved.IDValue())
	}
	if unsaved.IDValue() != 0 {
		t.Errorf("Expected id 0 for unsaved contact, got %d", unsaved.IDValue())
	}
}

func TestContactNormalizedCopiesID(t *testing.T) {
	original := Contact{ID: Int64Ptr(7), Name: " Bob "}
	normalized := original.Normalized()

	*normalized.ID = 8
	if *original.ID != 7 {
		t.Error("Normalized should not share the id pointer with the original")
	}
	if normalized.Name != "Bob" {
		t.Errorf("Expected name 'Bob', got '%s'", normalized.Name)
	}
}

func TestContactListFindByID(t *testing.T) {
	list := ContactList{Contacts: []Contact{
		{Name: "Draft"},
		{ID: Int64Ptr(1), Name: "One"},
		{ID: Int64Ptr(2), Name: "Two"},
	}}

	found := list.FindByID(2)
	if found == nil || found.Name != "Two" {
		t.Fatalf("Expected to find contact 'Two', got %v", found)
	}
	if list.FindByID(99) != nil {
		t.Error("Expected nil for missing id")
	}
}

func TestUserInitial(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"regular name", User{Name: "grace"}, "G"},
		{"empty name", User{}, "U"},
		{"whitespace name", User{Name: "   "}, "U"},
		{"unicode name", User{Name: "élodie"}, "É"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Initial(); got != tt.expected {
				t.Errorf("Expected initial '%s', got '%s'", tt.expected, got)
			}
		})
	}

	if (User{}).DisplayName() != "User" {
		t.Error("Expected fallback display name 'User'")
	}
}
