package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventpages/internal/domain"
)

// Email template names used by the invitation flow.
const (
	templateInvitation       = "invitation"
	templateRSVPConfirmation = "rsvp_confirmation"
)

type invitationService struct {
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	baseURL        string
	contextTimeout time.Duration
}

func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	baseURL string,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		baseURL:        strings.TrimRight(baseURL, "/"),
		contextTimeout: timeout,
	}
}

func (s *invitationService) SendInvitations(ctx context.Context, eventID, ownerID string, emails []string) (sent int, failed []string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil, domain.ErrNotFound
		}
		return 0, nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return 0, nil, domain.ErrForbidden
	}

	ownerName := "Event owner"
	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil && owner != nil {
		if name := strings.TrimSpace(owner.Name + " " + owner.LastName); name != "" {
			ownerName = name
		} else if owner.Email != "" {
			ownerName = owner.Email
		}
	}

	for _, email := range emails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			continue
		}
		token, err := randomToken(32)
		if err != nil {
			return sent, failed, fmt.Errorf("generate invitation token: %w", err)
		}
		inv := &domain.Invitation{
			EventID:    eventID,
			Email:      email,
			Status:     domain.InviteStatusPending,
			GuestCount: 0,
			Token:      token,
			SentAt:     time.Now(),
		}
		if err := s.invitationRepo.Create(ctx, inv); err != nil {
			failed = append(failed, email)
			continue
		}
		_, err = s.emailService.Enqueue(ctx, templateInvitation, email, map[string]string{
			"OwnerName": ownerName,
			"EventName": event.Name,
			"RSVPLink":  s.baseURL + "/rsvp/" + token,
		})
		if err != nil {
			failed = append(failed, email)
			continue
		}
		sent++
	}
	return sent, failed, nil
}

func (s *invitationService) ListInvitations(ctx context.Context, eventID, callerID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return nil, 0, domain.ErrForbidden
	}
	invs, total, err := s.invitationRepo.ListByEventID(ctx, eventID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	if invs == nil {
		invs = []*domain.Invitation{}
	}
	return invs, total, nil
}

func (s *invitationService) Respond(ctx context.Context, token, status string, guestCount int) (*domain.RSVPResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch status {
	case domain.InviteStatusAccepted, domain.InviteStatusDeclined:
	default:
		return nil, domain.ErrInvalidInput
	}
	if status == domain.InviteStatusAccepted {
		if guestCount == 0 {
			guestCount = 1
		}
		if guestCount < 1 {
			return nil, domain.ErrInvalidInput
		}
	} else {
		guestCount = 0
	}

	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv.Status != domain.InviteStatusPending {
		return nil, domain.ErrAlreadyResponded
	}

	event, err := s.eventRepo.GetByID(ctx, inv.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if status == domain.InviteStatusAccepted && event.Capacity != nil {
		accepted, err := s.invitationRepo.CountAcceptedGuests(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("count accepted guests: %w", err)
		}
		if accepted+guestCount > *event.Capacity {
			return nil, domain.ErrEventFull
		}
	}

	respondedAt := time.Now()
	if err := s.invitationRepo.SetResponse(ctx, inv.ID, status, guestCount, respondedAt); err != nil {
		return nil, fmt.Errorf("set response: %w", err)
	}
	inv.Status = status
	inv.GuestCount = guestCount
	inv.RespondedAt = &respondedAt

	if status == domain.InviteStatusAccepted {
		// Confirmation delivery is queued; a mail outage must not undo an RSVP.
		_, _ = s.emailService.Enqueue(ctx, templateRSVPConfirmation, inv.Email, map[string]string{
			"EventName":  event.Name,
			"GuestCount": strconv.Itoa(guestCount),
			"PageLink":   s.baseURL + "/p/" + event.Slug,
		})
	}

	return &domain.RSVPResult{Invitation: inv, EventName: event.Name}, nil
}
