package dto

import (
	"time"

	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
)

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name              string `json:"name"`
	CanViewAllTickets bool   `json:"can_view_all_tickets"`
	CanAssignTickets  bool   `json:"can_assign_tickets"`
	CanCloseTickets   bool   `json:"can_close_tickets"`
	CanDeleteTickets  bool   `json:"can_delete_tickets"`
}

// UpdateTeamRequest carries partial team changes.
type UpdateTeamRequest struct {
	Name              *string `json:"name"`
	CanViewAllTickets *bool   `json:"can_view_all_tickets"`
	CanAssignTickets  *bool   `json:"can_assign_tickets"`
	CanCloseTickets   *bool   `json:"can_close_tickets"`
	CanDeleteTickets  *bool   `json:"can_delete_tickets"`
}

// AddMemberRequest payload.
type AddMemberRequest struct {
	UserID string                `json:"user_id"`
	Role   domain.MembershipRole `json:"role"`
}

// UpdateMemberRequest payload.
type UpdateMemberRequest struct {
	Role domain.MembershipRole `json:"role"`
}

// TeamResponse is the outward team shape. The capability flags are
// present only for admin viewers.
type TeamResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	MemberCount       int       `json:"member_count"`
	CanViewAllTickets *bool     `json:"can_view_all_tickets,omitempty"`
	CanAssignTickets  *bool     `json:"can_assign_tickets,omitempty"`
	CanCloseTickets   *bool     `json:"can_close_tickets,omitempty"`
	CanDeleteTickets  *bool     `json:"can_delete_tickets,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// TeamDetailResponse adds the member roster to TeamResponse.
type TeamDetailResponse struct {
	TeamResponse
	Members []MembershipResponse `json:"members"`
}

// MembershipResponse represents one user inside a team.
type MembershipResponse struct {
	ID       string                `json:"id"`
	UserID   string                `json:"user_id"`
	TeamID   string                `json:"team_id"`
	Role     domain.MembershipRole `json:"role"`
	JoinedAt time.Time             `json:"joined_at"`
}

// ProjectTeam renders a team for the given viewer.
func ProjectTeam(team *domain.Team, memberCount int, viewer authz.Viewer) TeamResponse {
	resp := TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		MemberCount: memberCount,
		CreatedAt:   team.CreatedAt,
	}
	if viewer.IsAdmin {
		viewAll := team.CanViewAllTickets
		assign := team.CanAssignTickets
		closeTickets := team.CanCloseTickets
		deleteTickets := team.CanDeleteTickets
		resp.CanViewAllTickets = &viewAll
		resp.CanAssignTickets = &assign
		resp.CanCloseTickets = &closeTickets
		resp.CanDeleteTickets = &deleteTickets
	}
	return resp
}

// ProjectTeamDetail renders a team with its members for the given viewer.
func ProjectTeamDetail(team *domain.Team, memberships []domain.TeamMembership, viewer authz.Viewer) TeamDetailResponse {
	members := make([]MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, ProjectMembership(&m))
	}
	return TeamDetailResponse{
		TeamResponse: ProjectTeam(team, len(memberships), viewer),
		Members:      members,
	}
}

// ProjectMembership renders one membership row.
func ProjectMembership(m *domain.TeamMembership) MembershipResponse {
	return MembershipResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		TeamID:   m.TeamID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}
