// Package reports contains the offline views of the contact database:
// the CSV export and the terminal report.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"visionaryiq/db"
	"visionaryiq/models"
)

const (
	isoMillisLayout      = "2006-01-02T15:04:05.000Z07:00"
	exportFileTimeLayout = "2006-01-02T15-04-05"
)

// csvHeader is the first row of every export.
var csvHeader = []string{"ID", "First Name", "Last Name", "Email", "Company", "Project Type", "Message", "Date", "Status"}

var newlineCollapser = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// WriteCSV writes records to w as CSV, one row per record after the header.
// Line breaks inside messages are replaced by spaces so every record stays on one line.
func WriteCSV(w io.Writer, records []models.ContactRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.FirstName,
			r.LastName,
			r.Email,
			r.Company,
			models.ProjectTypeLabel(r.Subject),
			newlineCollapser.Replace(r.Message),
			r.Timestamp.UTC().Format(isoMillisLayout),
			string(r.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName returns the export file name for a run started at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("contacts-export-%s.csv", now.UTC().Format(exportFileTimeLayout))
}

// ExportCSV writes every stored contact to a timestamped CSV file in exportDir.
// It returns the file path and the number of records exported, or db.ErrNoData
// when nothing has been stored yet.
func ExportCSV(database *db.Database, exportDir string, now time.Time) (string, int, error) {
	contacts, err := database.LoadContacts()
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(exportDir, 0o700); err != nil {
		return "", 0, fmt.Errorf("failed to create export directory '%s': %w", exportDir, err)
	}

	path := filepath.Join(exportDir, ExportFileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create export file '%s': %w", path, err)
	}

	if err := WriteCSV(f, contacts); err != nil {
		f.Close()
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close export file '%s': %w", path, err)
	}
	return path, len(contacts), nil
}
