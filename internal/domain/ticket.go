package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether the status is a known value.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Label returns the human-readable form of the status.
func (s TicketStatus) Label() string {
	switch s {
	case TicketStatusOpen:
		return "Open"
	case TicketStatusInProgress:
		return "In Progress"
	case TicketStatusResolved:
		return "Resolved"
	case TicketStatusClosed:
		return "Closed"
	}
	return string(s)
}

// TicketPriority enumerates urgency, URGENT highest through LOW lowest.
type TicketPriority string

const (
	TicketPriorityUrgent TicketPriority = "URGENT"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityLow    TicketPriority = "LOW"
)

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityUrgent, TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return true
	}
	return false
}

// Label returns the human-readable form of the priority.
func (p TicketPriority) Label() string {
	switch p {
	case TicketPriorityUrgent:
		return "Urgent"
	case TicketPriorityHigh:
		return "High"
	case TicketPriorityMedium:
		return "Medium"
	case TicketPriorityLow:
		return "Low"
	}
	return string(p)
}

// Ticket is the aggregate for support requests. CreatedBy is set once from
// the acting identity and never changed by any update path. AssignedTo and
// AssignedToTeam are independent and may both be set or both be empty.
type Ticket struct {
	ID             string
	Title          string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	CategoryID     *string
	CreatedBy      string
	AssignedTo     *string
	AssignedToTeam *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
