// Command view-contacts prints contact statistics and the most recent submissions.
//
// It takes no flags and always exits 0.
package main

import (
	"log"
	"os"

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

	if err := reports.ViewReport(os.Stdout, db.NewDatabase(cfg)); err != nil {
		log.Printf("ERROR: Error reading contact data: %v", err)
	}
}
