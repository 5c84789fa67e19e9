package models

// projectTypeLabels maps the contact form's subject keys to display labels.
// Shared by the notification email and the CSV export.
var projectTypeLabels = map[string]string{
	"ai-platform": "AI Platform Development",
	"analytics":   "Predictive Analytics",
	"automation":  "Process Automation",
	"dashboard":   "Interactive Dashboard",
	"consulting":  "AI Consulting",
	"other":       "Other Project",
}

// ProjectTypeLabel returns the human-readable label for a subject key.
// Unknown keys are returned unchanged.
func ProjectTypeLabel(subject string) string {
	if label, ok := projectTypeLabels[subject]; ok {
		return label
	}
	return subject
}
