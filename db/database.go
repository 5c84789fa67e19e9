package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"visionaryiq/config"
)

// ErrNoData is returned by the Load methods when a file has not been created yet.
// It wraps os.ErrNotExist, so errors.Is(err, os.ErrNotExist) also holds.
var ErrNoData = fmt.Errorf("no data yet: %w", os.ErrNotExist)

// Database persists contact submissions and their running statistics in two
// JSON files under the configured data directory. Each file is rewritten in full
// on every change.
//
// Read-modify-write cycles on each file are serialised within this process.
// Separate processes writing the same files are not coordinated.
type Database struct {
	config     *config.Config
	contactsMu sync.Mutex // Guards the contacts file
	statsMu    sync.Mutex // Guards the stats file
}

// NewDatabase creates a Database for the files described by cfg.
// Nothing is created on disk until the first write.
func NewDatabase(cfg *config.Config) *Database {
	log.Printf("INFO: Initializing contact database in: %s", cfg.DataDir)
	return &Database{config: cfg}
}

// ensureDataDir creates the private data directory if needed.
func (db *Database) ensureDataDir() error {
	if err := os.MkdirAll(db.config.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory '%s': %w", db.config.DataDir, err)
	}
	return nil
}

// readJSONFile reads path into v. A missing file is reported as ErrNoData.
func readJSONFile(path string, v any) error {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoData
		}
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}
	if err := json.Unmarshal(fileData, v); err != nil {
		return fmt.Errorf("failed to parse JSON data from '%s': %w", path, err)
	}
	return nil
}

// writeJSONFile replaces the content of path with v, indented.
// The data is written to a temporary file first and renamed into place.
// When backup is true the previous file is kept as path+".bak".
func writeJSONFile(path string, v any, backup bool) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON for '%s': %w", path, err)
	}

	tempFilePath := path + ".tmp"
	backupFilePath := path + ".bak"

	if err := os.WriteFile(tempFilePath, jsonData, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary file '%s': %w", tempFilePath, err)
	}

	if backup {
		if _, err := os.Stat(path); err == nil {
			if err := os.Rename(path, backupFilePath); err != nil {
				log.Printf("WARN: Failed to rename '%s' to '%s' for backup: %v. Proceeding with save.", path, backupFilePath, err)
			} else {
				log.Printf("DEBUG: Created backup file: %s", backupFilePath)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN: Error checking status of '%s' before backup: %v", path, err)
		}
	}

	if err := os.Rename(tempFilePath, path); err != nil {
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary file '%s' to '%s': %w", tempFilePath, path, err)
	}
	return nil
}
