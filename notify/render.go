// Package notify turns stored contact submissions into notification emails
// for the site owner.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"visionaryiq/models"
)

const (
	brandName       = "VisionaryIQ"
	calendarBaseURL = "https://calendar.google.com/calendar/render"
	submittedLayout = "Mon, 02 Jan 2006 15:04:05 MST"
)

// Notification is a rendered email ready to be handed to a Sender.
type Notification struct {
	To      string
	From    string
	ReplyTo string
	Subject string
	HTML    string
}

// emailData is the view model of notificationTemplate.
type emailData struct {
	Record       models.ContactRecord
	FullName     string
	ProjectLabel string
	Submitted    string
	ReplyLink    template.URL
	CalendarLink template.URL
	Brand        string
}

var notificationTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #2563eb, #7c3aed); color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #f8fafc; padding: 20px; border: 1px solid #e2e8f0; }
    .message-box { background: white; padding: 20px; border-radius: 8px; margin: 15px 0; border-left: 4px solid #2563eb; }
    .info-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 15px; margin: 15px 0; }
    .info-item { background: white; padding: 15px; border-radius: 6px; }
    .label { font-weight: bold; color: #1e293b; margin-bottom: 5px; }
    .value { color: #475569; }
    .footer { background: #1e293b; color: white; padding: 15px; text-align: center; border-radius: 0 0 8px 8px; }
    .btn { display: inline-block; background: #2563eb; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; margin: 5px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>New Contact Form Submission - {{.Brand}}</h2>
      <p>You have received a new inquiry from your website!</p>
    </div>
    <div class="content">
      <div class="info-grid">
        <div class="info-item"><div class="label">Name</div><div class="value">{{.FullName}}</div></div>
        <div class="info-item"><div class="label">Email</div><div class="value">{{.Record.Email}}</div></div>
        <div class="info-item"><div class="label">Company</div><div class="value">{{.Record.Company}}</div></div>
        <div class="info-item"><div class="label">Project Type</div><div class="value">{{.ProjectLabel}}</div></div>
        <div class="info-item"><div class="label">Submitted</div><div class="value">{{.Submitted}}</div></div>
        <div class="info-item"><div class="label">Reference ID</div><div class="value">{{.Record.ID}}</div></div>
      </div>
      <div class="message-box">
        <div class="label">Message</div>
        <div class="value" style="white-space: pre-wrap; margin-top: 10px;">{{.Record.Message}}</div>
      </div>
      <div style="text-align: center; margin: 20px 0;">
        <a href="{{.ReplyLink}}" class="btn">Reply to Client</a>
        <a href="{{.CalendarLink}}" class="btn">Schedule Meeting</a>
      </div>
    </div>
    <div class="footer">
      <p>{{.Brand}} Contact Management System</p>
      <p><small>This is an automated notification from your website contact form.</small></p>
    </div>
  </div>
</body>
</html>
`))

// Render builds the owner notification for record. to and from are the
// owner's mailbox and the sending address.
func Render(record models.ContactRecord, to, from string) (Notification, error) {
	label := models.ProjectTypeLabel(record.Subject)
	data := emailData{
		Record:       record,
		FullName:     record.FullName(),
		ProjectLabel: label,
		Submitted:    record.Timestamp.UTC().Format(submittedLayout),
		ReplyLink:    template.URL(ReplyLink(record)),
		CalendarLink: template.URL(CalendarLink(record)),
		Brand:        brandName,
	}

	var buf bytes.Buffer
	if err := notificationTemplate.Execute(&buf, data); err != nil {
		return Notification{}, fmt.Errorf("failed to render notification for %s: %w", record.ID, err)
	}

	return Notification{
		To:      to,
		From:    from,
		ReplyTo: record.Email,
		Subject: Subject(record),
		HTML:    buf.String(),
	}, nil
}

// Subject returns the notification's subject line.
func Subject(record models.ContactRecord) string {
	return fmt.Sprintf("New Contact: %s - %s", record.FullName(), models.ProjectTypeLabel(record.Subject))
}

// ReplyLink returns a mailto link addressed to the submitter with a prefilled reply.
func ReplyLink(record models.ContactRecord) string {
	label := models.ProjectTypeLabel(record.Subject)
	subject := fmt.Sprintf("Re: %s Inquiry", label)
	body := fmt.Sprintf("Hi %s,\r\n\r\nThank you for your interest in %s. I'd be happy to discuss your project in more detail.\r\n\r\nBest regards,\r\n%s",
		record.FirstName, label, brandName)

	return "mailto:" + url.PathEscape(record.Email) +
		"?subject=" + mailtoEscape(subject) +
		"&body=" + mailtoEscape(body)
}

// CalendarLink returns a Google Calendar event template link for a meeting with the submitter.
func CalendarLink(record models.ContactRecord) string {
	details := fmt.Sprintf("Project: %s\r\nEmail: %s\r\nCompany: %s",
		models.ProjectTypeLabel(record.Subject), record.Email, record.Company)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", "Meeting with "+record.FullName())
	q.Set("details", details)
	return calendarBaseURL + "?" + q.Encode()
}

// mailtoEscape query-escapes s using %20 for spaces, which mail clients expect in mailto URLs.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
