// Command export-contacts writes every stored contact to a timestamped CSV file.
//
// It takes no flags; configuration comes from VISIONARYIQ_* environment
// variables, a .env file or VISIONARYIQ_CONFIG_FILE. It always exits 0.
package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"visionaryiq/config"
	"visionaryiq/db"
	"visionaryiq/reports"
)

func main() {
	cfg, err := config.LoadToolConfig()
	if err != nil {
		log.Printf("ERROR: Error loading configuration: %v", err)
		return
	}

	path, count, err := reports.ExportCSV(db.NewDatabase(cfg), cfg.ExportDir, time.Now())
	if err != nil {
		if errors.Is(err, db.ErrNoData) {
			fmt.Println("No contacts found yet. Nothing to export.")
			return
		}
		log.Printf("ERROR: Error exporting contacts: %v", err)
		return
	}

	fmt.Println("Contacts exported successfully!")
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Total contacts: %d\n", count)
}
