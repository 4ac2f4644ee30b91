package audit

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewJournalRequiresDir(t *testing.T) {
	if _, err := NewJournal(""); err == nil {
		t.Error("Expected error for empty directory")
	}
}

func TestRecordAndHistory(t *testing.T) {
	journal, err := NewJournal(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	journal.now = func() time.Time { return fixed }

	if _, err := journal.Record(ActionCreate, 1, "ada@example.com", ContactDetails("Ada", "ada@example.com", "")); err != nil {
		t.Fatalf("Failed to record create: %v", err)
	}
	if _, err := journal.Record(ActionCreate, 2, "ada@example.com", nil); err != nil {
		t.Fatalf("Failed to record create: %v", err)
	}
	if _, err := journal.Record(ActionDelete, 1, "ada@example.com", nil); err != nil {
		t.Fatalf("Failed to record delete: %v", err)
	}

	history, err := journal.History(1)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 entries for contact 1, got %d", len(history))
	}
	if history[0].Action != ActionCreate || history[1].Action != ActionDelete {
		t.Errorf("Expected create then delete, got %s then %s", history[0].Action, history[1].Action)
	}
	if history[0].Details["name"] != "Ada" {
		t.Errorf("Expected name detail Ada, got %q", history[0].Details["name"])
	}
	if !history[0].Timestamp.Equal(fixed) {
		t.Errorf("Expected timestamp %v, got %v", fixed, history[0].Timestamp)
	}
	if history[0].ID == history[1].ID {
		t.Error("Expected distinct entry ids")
	}
}

func TestRecordExport(t *testing.T) {
	journal, err := NewJournal(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	if err := journal.RecordExport("ada@example.com", "/tmp/contacts.json", 3); err != nil {
		t.Fatalf("Failed to record export: %v", err)
	}

	entries, err := journal.Entries()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Details["count"] != "3" {
		t.Errorf("Expected count 3, got %q", entries[0].Details["count"])
	}
}

func TestEntriesMissingFile(t *testing.T) {
	journal, err := NewJournal(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	entries, err := journal.Entries()
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestEntriesSkipsCorruptLines(t *testing.T) {
	journal, err := NewJournal(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	if _, err := journal.Record(ActionUpdate, 5, "", nil); err != nil {
		t.Fatalf("Failed to record update: %v", err)
	}

	file, err := os.OpenFile(journal.Path(), os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	file.WriteString("not json\n")
	file.Close()

	if _, err := journal.Record(ActionDelete, 5, "", nil); err != nil {
		t.Fatalf("Failed to record delete: %v", err)
	}

	entries, err := journal.Entries()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries, got %d", len(entries))
	}

	data, _ := os.ReadFile(journal.Path())
	if !strings.Contains(string(data), "not json") {
		t.Error("Expected corrupt line to be left in place")
	}
}
