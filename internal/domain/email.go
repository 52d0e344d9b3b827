package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// Outbox message statuses.
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// maxSendAttempts is the attempt count after which a pending message is marked failed.
const MaxSendAttempts = 3

// OutboxMessage is one queued email. Enqueueing never blocks on delivery; a
// background sender drains pending rows.
type OutboxMessage struct {
	ID        string            `json:"id"`
	Template  string            `json:"template"`
	Recipient string            `json:"recipient"`
	Variables map[string]string `json:"variables"`
	Status    string            `json:"status"`
	Attempts  int               `json:"attempts"`
	LastError *string           `json:"last_error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	SentAt    *time.Time        `json:"sent_at,omitempty"`
}

// EmailOutboxRepository defines storage for queued emails.
type EmailOutboxRepository interface {
	Enqueue(ctx context.Context, msg *OutboxMessage) error
	ListPending(ctx context.Context, limit int) ([]*OutboxMessage, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string, attempts int, lastError string) error
}

// EmailService queues domain emails and drains the outbox.
type EmailService interface {
	// Enqueue stores a message for the named template and returns its id.
	Enqueue(ctx context.Context, template, recipient string, variables map[string]string) (string, error)
	// ProcessOutbox renders and sends pending messages, marking each sent or
	// failed. Returns the number sent.
	ProcessOutbox(ctx context.Context, limit int) (int, error)
}
