package domain

import "time"

// Team groups users that work tickets together. The four capability flags
// are stored and reported to admins but no authorization rule consumes them
// yet.
type Team struct {
	ID                string
	Name              string
	CanViewAllTickets bool
	CanAssignTickets  bool
	CanCloseTickets   bool
	CanDeleteTickets  bool
	CreatedAt         time.Time
}

// MembershipRole is the role a user holds inside one team.
type MembershipRole string

const (
	MembershipRoleMember MembershipRole = "member"
	MembershipRoleLead   MembershipRole = "lead"
)

// Valid reports whether the membership role is a known value.
func (r MembershipRole) Valid() bool {
	return r == MembershipRoleMember || r == MembershipRoleLead
}

// TeamMembership joins a user to a team with a per-team role. A user joins
// a given team at most once; JoinedAt is immutable after creation.
type TeamMembership struct {
	ID       string
	UserID   string
	TeamID   string
	Role     MembershipRole
	JoinedAt time.Time
}

// IsLead reports whether the membership grants lead powers over its team.
func (m *TeamMembership) IsLead() bool {
	return m != nil && m.Role == MembershipRoleLead
}
