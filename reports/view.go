package reports

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"visionaryiq/db"
	"visionaryiq/models"

	"github.com/tidwall/gjson"
)

const (
	recentContactsShown = 10
	messagePreviewRunes = 100
	viewTimeLayout      = "2006-01-02 15:04:05 MST"
)

// ViewReport writes the statistics summary followed by the most recent contacts to w.
// Missing or unreadable files are reported in the output rather than returned.
func ViewReport(w io.Writer, database *db.Database) error {
	p := &printer{w: w}

	p.line("VisionaryIQ Contact Database Viewer")
	p.line("=====================================")
	p.line("")

	writeStats(p, database)
	writeRecentContacts(p, database)

	return p.err
}

func writeStats(p *printer, database *db.Database) {
	raw, err := database.ReadStatsJSON()
	if err == nil && !gjson.ValidBytes(raw) {
		err = fmt.Errorf("stats file is not valid JSON")
	}
	if err != nil {
		if !errors.Is(err, db.ErrNoData) {
			log.Printf("WARN: Unable to read statistics: %v", err)
		}
		p.line("No statistics available yet")
		return
	}

	stats := gjson.ParseBytes(raw)
	p.line("STATISTICS:")
	p.linef("Total Contacts: %d", stats.Get("totalContacts").Int())
	if lastUpdated := stats.Get("lastUpdated"); lastUpdated.Exists() {
		p.linef("Last Updated: %s", lastUpdated.Time().Local().Format(viewTimeLayout))
	}

	// Iterate the raw JSON so entries keep the order they have in the file.
	p.line("")
	p.line("Contacts by Month:")
	stats.Get("contactsByMonth").ForEach(func(month, count gjson.Result) bool {
		p.linef("  %s: %d contacts", month.String(), count.Int())
		return true
	})

	p.line("")
	p.line("Contacts by Project Type:")
	stats.Get("contactsByType").ForEach(func(subject, count gjson.Result) bool {
		p.linef("  %s: %d contacts", models.ProjectTypeLabel(subject.String()), count.Int())
		return true
	})
}

func writeRecentContacts(p *printer, database *db.Database) {
	contacts, err := database.LoadContacts()
	if err != nil {
		if !errors.Is(err, db.ErrNoData) {
			log.Printf("WARN: Unable to read contacts: %v", err)
		}
		p.line("")
		p.line("No contacts found yet")
		return
	}

	p.line("")
	p.linef("RECENT CONTACTS (%d total):", len(contacts))
	p.line(strings.Repeat("=", 80))

	shown := contacts
	if len(shown) > recentContactsShown {
		shown = shown[:recentContactsShown]
	}
	for i, c := range shown {
		p.line("")
		p.linef("%d. %s", i+1, c.FullName())
		p.linef("   Email: %s", c.Email)
		p.linef("   Company: %s", c.Company)
		p.linef("   Project: %s", models.ProjectTypeLabel(c.Subject))
		p.linef("   Date: %s", c.Timestamp.Local().Format(viewTimeLayout))
		p.linef("   ID: %s", c.ID)
		p.linef("   Message: %s", TruncateMessage(c.Message, messagePreviewRunes))
		p.line("   " + strings.Repeat("-", 70))
	}

	if len(contacts) > recentContactsShown {
		p.line("")
		p.linef("... and %d more contacts", len(contacts)-recentContactsShown)
	}
}

// TruncateMessage shortens msg to at most limit runes, appending "..." when it was cut.
func TruncateMessage(msg string, limit int) string {
	runes := []rune(msg)
	if len(runes) <= limit {
		return msg
	}
	return string(runes[:limit]) + "..."
}

// printer writes lines and remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}
