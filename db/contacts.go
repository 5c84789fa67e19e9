package db

import (
	"errors"
	"fmt"
	"log"

	"visionaryiq/models"
)

// AppendContact stores record as the newest entry of the contacts file and
// drops the oldest entries beyond the configured maximum.
//
// An unreadable or corrupt contacts file is treated as empty and overwritten.
// Errors creating the data directory or writing the file are returned.
func (db *Database) AppendContact(record models.ContactRecord) error {
	db.contactsMu.Lock()
	defer db.contactsMu.Unlock()

	if err := db.ensureDataDir(); err != nil {
		return err
	}

	path := db.config.ContactsPath()
	var contacts []models.ContactRecord
	if err := readJSONFile(path, &contacts); err != nil {
		if !errors.Is(err, ErrNoData) {
			log.Printf("WARN: %v. Starting from an empty contact list.", err)
		}
		contacts = nil
	}

	contacts = prependCapped(contacts, record, db.config.MaxContacts)

	if err := writeJSONFile(path, contacts, db.config.EnableBackup); err != nil {
		return fmt.Errorf("failed to save contact %s: %w", record.ID, err)
	}

	log.Printf("INFO: Contact saved to database: %s (%d stored)", record.ID, len(contacts))
	return nil
}

// LoadContacts returns all stored contacts, newest first.
// It returns ErrNoData if no contact has been stored yet.
func (db *Database) LoadContacts() ([]models.ContactRecord, error) {
	db.contactsMu.Lock()
	defer db.contactsMu.Unlock()

	var contacts []models.ContactRecord
	if err := readJSONFile(db.config.ContactsPath(), &contacts); err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []models.ContactRecord{}
	}
	return contacts, nil
}

// prependCapped returns a new slice with record first followed by contacts,
// truncated to limit entries.
func prependCapped(contacts []models.ContactRecord, record models.ContactRecord, limit int) []models.ContactRecord {
	n := len(contacts) + 1
	if n > limit {
		n = limit
	}
	out := make([]models.ContactRecord, 0, n)
	out = append(out, record)
	for _, c := range contacts {
		if len(out) == n {
			break
		}
		out = append(out, c)
	}
	return out
}
