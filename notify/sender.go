package notify

import (
	"context"
	"log"
)

// Sender delivers a rendered notification.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender stands in for an email transport: it logs the envelope of each
// notification instead of delivering it.
type LogSender struct{}

// Send logs n and never fails.
func (LogSender) Send(_ context.Context, n Notification) error {
	log.Printf("INFO: Email notification ready. To: %s, Reply-To: %s, Subject: %s", n.To, n.ReplyTo, n.Subject)
	log.Printf("DEBUG: HTML content prepared for sending (%d bytes)", len(n.HTML))
	return nil
}
