// Package audit keeps a local, append-only record of contact changes made from
// this machine.
package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

// Entry is one line of the journal.
type Entry struct {
	ID        string            `json:"id"`
	Action    Action            `json:"action"`
	ContactID int64             `json:"contact_id,omitempty"`
	User      string            `json:"user,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

// Journal appends entries as JSON lines to a single file. It is safe for
// concurrent use.
type Journal struct {
	path string
	now  func() time.Time

	mu  sync.Mutex
	seq int
}

const fileName = "contact_audit.log"

func NewJournal(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("audit directory must be set")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	return &Journal{
		path: filepath.Join(dir, fileName),
		now:  time.Now,
	}, nil
}

func (j *Journal) Path() string {
	return j.path
}

// Record appends one entry and returns it.
func (j *Journal) Record(action Action, contactID int64, user string, details map[string]string) (Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	now := j.now()
	entry := Entry{
		ID:        fmt.Sprintf("audit_%s_%d", now.Format("20060102150405"), j.seq),
		Action:    action,
		ContactID: contactID,
		User:      user,
		Timestamp: now,
		Details:   details,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to open audit log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return Entry{}, fmt.Errorf("failed to write audit entry: %w", err)
	}
	return entry, nil
}

// Entries reads the journal back in order. Lines that fail to parse are skipped.
func (j *Journal) Entries() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}
	defer file.Close()

	return readEntries(file)
}

// History returns the entries for one contact.
func (j *Journal) History(contactID int64) ([]Entry, error) {
	all, err := j.Entries()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, entry := range all {
		if entry.ContactID == contactID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to read audit log: %w", err)
	}
	return entries, nil
}

// ContactDetails captures the fields worth keeping for a contact entry.
func ContactDetails(name, email, phone string) map[string]string {
	return map[string]string{"name": name, "email": email, "phone": phone}
}

func countDetail(n int) map[string]string {
	return map[string]string{"count": strconv.Itoa(n)}
}

// RecordExport notes that count contacts were written to path.
func (j *Journal) RecordExport(user, path string, count int) error {
	details := countDetail(count)
	details["path"] = path
	_, err := j.Record(ActionExport, 0, user, details)
	return err
}
