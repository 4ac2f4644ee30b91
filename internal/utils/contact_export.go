package utils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"contactapp/cterm/internal/models"
)

type ExportFormat int

const (
	FormatJSON ExportFormat = iota
	FormatCSV
)

func (f ExportFormat) Extension() string {
	if f == FormatCSV {
		return "csv"
	}
	return "json"
}

type exportFile struct {
	ExportedAt    time.Time        `json:"exported_at"`
	Version       string           `json:"version"`
	TotalContacts int              `json:"total_contacts"`
	Contacts      []models.Contact `json:"contacts"`
}

// ExportContacts writes contacts to path, creating parent directories.
func ExportContacts(contacts []models.Contact, format ExportFormat, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		data := exportFile{
			ExportedAt:    time.Now(),
			Version:       "1.0",
			TotalContacts: len(contacts),
			Contacts:      contacts,
		}
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatCSV:
		writer := csv.NewWriter(file)
		if err := writer.Write([]string{"id", "name", "email", "phone"}); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, c := range contacts {
			id := ""
			if c.HasID() {
				id = strconv.FormatInt(*c.ID, 10)
			}
			if err := writer.Write([]string{id, c.Name, c.Email, c.Phone}); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("failed to flush CSV: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format")
	}

	return file.Close()
}

// GenerateExportFilename names an export after the current time.
func GenerateExportFilename(format ExportFormat, now time.Time) string {
	return fmt.Sprintf("contacts_%s.%s", now.Format("20060102_150405"), format.Extension())
}
