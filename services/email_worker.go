package services

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"conference-api/models"
	"conference-api/monitor"
)

// EmailWorker drains the email outbox. Rows are written by the request
// handlers inside their own transactions; the worker polls for due pending
// rows and hands them to the SMTP sender, retrying with backoff until
// MaxAttempts is reached.
type EmailWorker struct {
	DB          *gorm.DB
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	Send        func(to, subject, body string) error
}

func NewEmailWorker(db *gorm.DB, send func(to, subject, body string) error) *EmailWorker {
	return &EmailWorker{
		DB:          db,
		Interval:    15 * time.Second,
		BatchSize:   20,
		MaxAttempts: 5,
		Send:        send,
	}
}

// Run polls until ctx is cancelled.
func (w *EmailWorker) Run(ctx context.Context) {
	log.Printf("email worker started (interval %s, batch %d)", w.Interval, w.BatchSize)
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("email worker stopped")
			return
		case <-ticker.C:
			if err := w.ProcessOnce(); err != nil {
				log.Printf("email worker pass failed: %v", err)
			}
		}
	}
}

// ProcessOnce delivers one batch of due pending emails.
func (w *EmailWorker) ProcessOnce() error {
	var due []models.EmailOutbox
	err := w.DB.
		Where("status = ? AND nextAttemptAt <= ?", models.OutboxStatusPending, time.Now()).
		Order("nextAttemptAt ASC").
		Limit(w.BatchSize).
		Find(&due).Error
	if err != nil {
		return err
	}

	for i := range due {
		w.deliver(&due[i])
	}
	return nil
}

func (w *EmailWorker) deliver(msg *models.EmailOutbox) {
	err := w.Send(msg.Recipient, msg.Subject, msg.Body)
	now := time.Now()

	if err == nil {
		w.DB.Model(&models.EmailOutbox{}).
			Where("id = ?", msg.ID).
			Updates(map[string]interface{}{
				"status":    models.OutboxStatusSent,
				"attempts":  msg.Attempts + 1,
				"lastError": nil,
				"sentAt":    now,
			})
		monitor.EmailsSent.Inc()
		return
	}

	attempts := msg.Attempts + 1
	errText := err.Error()
	updates := map[string]interface{}{
		"attempts":  attempts,
		"lastError": errText,
	}
	if attempts >= w.MaxAttempts {
		updates["status"] = models.OutboxStatusFailed
		monitor.EmailsFailed.Inc()
		log.Printf("email to %s permanently failed after %d attempts: %v", msg.Recipient, attempts, err)
	} else {
		updates["nextAttemptAt"] = now.Add(w.backoff(attempts))
		monitor.EmailRetries.Inc()
	}
	w.DB.Model(&models.EmailOutbox{}).Where("id = ?", msg.ID).Updates(updates)
}

// backoff doubles per attempt starting at one minute, capped at an hour.
func (w *EmailWorker) backoff(attempts int) time.Duration {
	d := time.Minute
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= time.Hour {
			return time.Hour
		}
	}
	return d
}
