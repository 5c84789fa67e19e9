package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"visionaryiq/models"
)

// monthKeyLayout formats a timestamp as the YYYY-MM key used by ContactsByMonth.
const monthKeyLayout = "2006-01"

// UpdateStats counts record in the stats file.
//
// A missing or corrupt stats file is replaced by a fresh summary. Callers are
// expected to log a returned error and carry on: the contact itself is already stored.
func (db *Database) UpdateStats(record models.ContactRecord) error {
	db.statsMu.Lock()
	defer db.statsMu.Unlock()

	if err := db.ensureDataDir(); err != nil {
		return err
	}

	path := db.config.StatsPath()
	stats := models.NewStatsSummary()
	if err := readJSONFile(path, &stats); err != nil {
		if !errors.Is(err, ErrNoData) {
			log.Printf("WARN: %v. Starting from empty statistics.", err)
		}
		stats = models.NewStatsSummary()
	}
	normalizeStats(&stats)

	applyRecord(&stats, record, time.Now().UTC())

	if err := writeJSONFile(path, stats, db.config.EnableBackup); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

// LoadStats returns the stored summary.
// It returns ErrNoData if no statistics have been written yet.
func (db *Database) LoadStats() (models.StatsSummary, error) {
	db.statsMu.Lock()
	defer db.statsMu.Unlock()

	stats := models.NewStatsSummary()
	if err := readJSONFile(db.config.StatsPath(), &stats); err != nil {
		return models.StatsSummary{}, err
	}
	normalizeStats(&stats)
	return stats, nil
}

// applyRecord increments every counter affected by record.
func applyRecord(stats *models.StatsSummary, record models.ContactRecord, now time.Time) {
	stats.TotalContacts++
	stats.ContactsByMonth[record.Timestamp.UTC().Format(monthKeyLayout)]++
	stats.ContactsByType[record.Subject]++
	stats.LastUpdated = now
}

// normalizeStats replaces maps left nil by a "null" in the file.
func normalizeStats(stats *models.StatsSummary) {
	if stats.ContactsByMonth == nil {
		stats.ContactsByMonth = make(map[string]int)
	}
	if stats.ContactsByType == nil {
		stats.ContactsByType = make(map[string]int)
	}
}

// ReadStatsJSON returns the stats file exactly as stored, for readers that
// care about key order. It returns ErrNoData if the file does not exist.
func (db *Database) ReadStatsJSON() ([]byte, error) {
	db.statsMu.Lock()
	defer db.statsMu.Unlock()

	data, err := os.ReadFile(db.config.StatsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to read '%s': %w", db.config.StatsPath(), err)
	}
	return data, nil
}
