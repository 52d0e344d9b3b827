package domain

import (
	"context"
	"time"
)

// Invitation statuses.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

// Invitation represents an email invited to an event, including its RSVP
// response. The (event_id, email) pair is unique.
// swagger:model Invitation
type Invitation struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	GuestCount  int        `json:"guest_count"`
	Token       string     `json:"-"`
	SentAt      time.Time  `json:"sent_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// InvitationRepository defines storage operations for invitations and RSVPs.
type InvitationRepository interface {
	// Create inserts a pending invitation; a duplicate (event_id, email) pair
	// returns ErrDuplicateInvite.
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListByEventID(ctx context.Context, eventID, search string, params PaginationParams) ([]*Invitation, int, error)
	// SetResponse records the RSVP response and responded_at timestamp.
	SetResponse(ctx context.Context, invitationID, status string, guestCount int, respondedAt time.Time) error
	// CountAcceptedGuests sums guest counts of accepted invitations for the event.
	CountAcceptedGuests(ctx context.Context, eventID string) (int, error)
}

// RSVPResult bundles an RSVP response with its event for confirmation pages.
type RSVPResult struct {
	Invitation *Invitation `json:"invitation"`
	EventName  string      `json:"event_name"`
}

// InvitationService defines invitation sending and the public RSVP flow.
type InvitationService interface {
	// SendInvitations creates invitations for the given emails and enqueues an
	// invitation email per created row. Duplicate emails are reported back as
	// failed, not fatal.
	SendInvitations(ctx context.Context, eventID, ownerID string, emails []string) (sent int, failed []string, err error)
	ListInvitations(ctx context.Context, eventID, callerID, search string, params PaginationParams) ([]*Invitation, int, error)
	// Respond records an accept/decline by invitation token. Accepting checks
	// remaining capacity and returns ErrEventFull when the event is full.
	Respond(ctx context.Context, token, status string, guestCount int) (*RSVPResult, error)
}
