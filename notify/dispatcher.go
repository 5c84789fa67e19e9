package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"visionaryiq/config"
	"visionaryiq/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sendTimeout bounds a single background delivery.
const sendTimeout = 30 * time.Second

// NotificationsTotal counts notification attempts by result (sent, failed, skipped).
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "visionaryiq_notifications_total",
		Help: "Owner notification attempts by result",
	},
	[]string{"result"},
)

// Dispatcher renders and sends owner notifications in the background.
// Failures are logged and counted, never returned to the submitter's request.
type Dispatcher struct {
	sender  Sender
	to      string
	from    string
	enabled bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher delivering through sender to the mailbox in cfg.
func NewDispatcher(sender Sender, cfg *config.Config) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		to:      cfg.NotifyTo,
		from:    cfg.NotifyFrom,
		enabled: cfg.NotifyEnabled,
	}
}

// Dispatch notifies the owner about record on a separate goroutine and returns immediately.
func (d *Dispatcher) Dispatch(record models.ContactRecord) {
	if !d.enabled {
		NotificationsTotal.WithLabelValues("skipped").Inc()
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := d.Notify(ctx, record); err != nil {
			NotificationsTotal.WithLabelValues("failed").Inc()
			log.Printf("ERROR: Error sending email notification for %s: %v", record.ID, err)
			return
		}
		NotificationsTotal.WithLabelValues("sent").Inc()
	}()
}

// Notify renders and sends the notification for record synchronously.
// A panic in the sender is recovered and reported as an error.
func (d *Dispatcher) Notify(ctx context.Context, record models.ContactRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notification panicked: %v", r)
		}
	}()

	n, err := Render(record, d.to, d.from)
	if err != nil {
		return err
	}
	if err := d.sender.Send(ctx, n); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// Wait blocks until all dispatched notifications have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
