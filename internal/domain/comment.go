package domain

import "time"

// Comment is a discussion entry on a ticket. AuthorID is set from the
// acting identity at creation and never reassigned. Comments are removed
// with their ticket.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
