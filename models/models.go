package models

import (
	"time"
)

// ContactStatus is the follow-up state of a contact submission.
type ContactStatus string

const (
	StatusNew     ContactStatus = "new"
	StatusRead    ContactStatus = "read"    // No code path sets this yet.
	StatusReplied ContactStatus = "replied" // No code path sets this yet.
)

// CompanyNotProvided is stored when the submitter leaves the company field blank.
const CompanyNotProvided = "Not provided"

// UnknownClientValue is stored when the request carries no IP or user agent information.
const UnknownClientValue = "unknown"

// ContactRecord is a single contact form submission as persisted in the contacts file.
// Records are never modified once written.
type ContactRecord struct {
	ID        string        `json:"id"`        // contact_<unix millis>_<random suffix>
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Company   string        `json:"company"`   // CompanyNotProvided when absent
	Subject   string        `json:"subject"`   // Project type key, see ProjectTypeLabel
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"` // UTC, millisecond precision
	Status    ContactStatus `json:"status"`
	IPAddress string        `json:"ipAddress"`
	UserAgent string        `json:"userAgent"`
}

// FullName returns "First Last".
func (r ContactRecord) FullName() string {
	return r.FirstName + " " + r.LastName
}

// StatsSummary holds the running counters kept alongside the contacts file.
// TotalContacts is incremented per stored record and is never recomputed,
// so it can exceed the number of records retained in the store.
type StatsSummary struct {
	TotalContacts   int            `json:"totalContacts"`
	ContactsByMonth map[string]int `json:"contactsByMonth"` // Keyed by YYYY-MM
	ContactsByType  map[string]int `json:"contactsByType"`  // Keyed by raw subject
	LastUpdated     time.Time      `json:"lastUpdated"`
}

// NewStatsSummary returns a zero summary with initialised maps.
func NewStatsSummary() StatsSummary {
	return StatsSummary{
		ContactsByMonth: make(map[string]int),
		ContactsByType:  make(map[string]int),
	}
}
