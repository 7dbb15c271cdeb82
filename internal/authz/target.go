package authz

import "github.com/quiktik/helpdesk/internal/domain"

// Action enumerates the operations the engine decides on.
type Action string

const (
	ActionView       Action = "view"
	ActionCreate     Action = "create"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionAssign     Action = "assign"
	ActionDeactivate Action = "deactivate"
)

// Target is the entity instance, or entity class, an action applies to.
// Every variant is an explicit struct so a decision is always keyed on the
// (action, target type) pair rather than probing objects for capabilities.
type Target interface {
	targetKind() string
}

// CreateTeam is the class-level target for creating a team.
type CreateTeam struct{}

// CreateCategory is the class-level target for creating a category.
type CreateCategory struct{}

// CreateTicket is the class-level target for creating a ticket.
type CreateTicket struct{}

// CreateComment is the class-level target for commenting on an existing
// ticket. Ticket existence is checked by the caller before authorization.
type CreateComment struct {
	Ticket *domain.Ticket
}

// TeamTarget wraps an existing team.
type TeamTarget struct {
	Team *domain.Team
}

// MembershipTarget addresses membership management on one team: adding a
// member, changing a member's role, or removing a member.
type MembershipTarget struct {
	TeamID string
}

// CategoryTarget wraps an existing category.
type CategoryTarget struct {
	Category *domain.Category
}

// TicketTarget wraps an existing ticket.
type TicketTarget struct {
	Ticket *domain.Ticket
}

// CommentTarget wraps an existing comment.
type CommentTarget struct {
	Comment *domain.Comment
}

// UserTarget wraps an existing user account.
type UserTarget struct {
	User *domain.User
}

func (CreateTeam) targetKind() string       { return "team" }
func (CreateCategory) targetKind() string   { return "category" }
func (CreateTicket) targetKind() string     { return "ticket" }
func (CreateComment) targetKind() string    { return "comment" }
func (TeamTarget) targetKind() string       { return "team" }
func (MembershipTarget) targetKind() string { return "membership" }
func (CategoryTarget) targetKind() string   { return "category" }
func (TicketTarget) targetKind() string     { return "ticket" }
func (CommentTarget) targetKind() string    { return "comment" }
func (UserTarget) targetKind() string       { return "user" }
