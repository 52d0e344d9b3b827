package services

import (
	"context"
	"fmt"
	"time"

	"eventpages/internal/domain"
)

type emailService struct {
	outboxRepo     domain.EmailOutboxRepository
	mailer         domain.Mailer
	renderer       domain.EmailTemplateRenderer
	contextTimeout time.Duration
}

func NewEmailService(
	outboxRepo domain.EmailOutboxRepository,
	mailer domain.Mailer,
	renderer domain.EmailTemplateRenderer,
	timeout time.Duration,
) domain.EmailService {
	return &emailService{
		outboxRepo:     outboxRepo,
		mailer:         mailer,
		renderer:       renderer,
		contextTimeout: timeout,
	}
}

func (s *emailService) Enqueue(ctx context.Context, template, recipient string, variables map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if template == "" || recipient == "" {
		return "", domain.ErrInvalidInput
	}
	msg := &domain.OutboxMessage{
		Template:  template,
		Recipient: recipient,
		Variables: variables,
		Status:    domain.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.outboxRepo.Enqueue(ctx, msg); err != nil {
		return "", fmt.Errorf("enqueue email: %w", err)
	}
	return msg.ID, nil
}

// ProcessOutbox drains up to limit pending messages. A render or send failure
// bumps the attempt count; the repository flips the row to failed once the
// attempt limit is reached.
func (s *emailService) ProcessOutbox(ctx context.Context, limit int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	pending, err := s.outboxRepo.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list pending emails: %w", err)
	}

	sent := 0
	for _, msg := range pending {
		subject, htmlBody, textBody, err := s.renderer.Render(msg.Template, msg.Variables)
		if err != nil {
			if markErr := s.outboxRepo.MarkFailed(ctx, msg.ID, msg.Attempts+1, err.Error()); markErr != nil {
				return sent, fmt.Errorf("mark email failed: %w", markErr)
			}
			continue
		}
		if err := s.mailer.Send(msg.Recipient, subject, htmlBody, textBody); err != nil {
			if markErr := s.outboxRepo.MarkFailed(ctx, msg.ID, msg.Attempts+1, err.Error()); markErr != nil {
				return sent, fmt.Errorf("mark email failed: %w", markErr)
			}
			continue
		}
		if err := s.outboxRepo.MarkSent(ctx, msg.ID, time.Now()); err != nil {
			return sent, fmt.Errorf("mark email sent: %w", err)
		}
		sent++
	}
	return sent, nil
}
