package events

import (
	"time"

	"github.com/quiktik/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventCommentAdded    EventType = "comment_added"
	EventMemberAdded     EventType = "member_added"
	EventUserDeactivated EventType = "user_deactivated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   string                `json:"ticket_id"`
	Title      string                `json:"title"`
	Priority   domain.TicketPriority `json:"priority"`
	CategoryID *string               `json:"category_id,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID       string  `json:"ticket_id"`
	AssignedTo     *string `json:"assigned_to,omitempty"`
	AssignedToTeam *string `json:"assigned_to_team,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	TicketID  string `json:"ticket_id"`
	CommentID string `json:"comment_id"`
	AuthorID  string `json:"author_id"`
}

// MemberAddedPayload payload.
type MemberAddedPayload struct {
	TeamID string                `json:"team_id"`
	UserID string                `json:"user_id"`
	Role   domain.MembershipRole `json:"role"`
}

// UserDeactivatedPayload payload.
type UserDeactivatedPayload struct {
	UserID string `json:"user_id"`
}
