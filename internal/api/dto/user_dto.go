package dto

import (
	"time"

	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest payload for admin user creation.
type CreateUserRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
}

// UpdateUserRequest carries partial user changes. Role and IsActive are
// honored only when the caller is an admin.
type UpdateUserRequest struct {
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Role      *domain.Role `json:"role"`
	IsActive  *bool        `json:"is_active"`
}

// UserResponse is the outward user shape. Role, IsActive, and Teams are
// present only for admin or team-lead viewers.
type UserResponse struct {
	ID        string                   `json:"id"`
	Email     string                   `json:"email"`
	FirstName string                   `json:"first_name"`
	LastName  string                   `json:"last_name"`
	FullName  string                   `json:"full_name"`
	Role      *domain.Role              `json:"role,omitempty"`
	IsActive  *bool                     `json:"is_active,omitempty"`
	Teams     *[]UserMembershipResponse `json:"teams,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

// UserMembershipResponse summarizes one team membership of a user.
type UserMembershipResponse struct {
	TeamID   string                `json:"team_id"`
	Role     domain.MembershipRole `json:"role"`
	JoinedAt time.Time             `json:"joined_at"`
}

// ProjectUser renders a user for the given viewer, omitting the
// privileged fields for everyone below admin or team lead.
func ProjectUser(user *domain.User, memberships []domain.TeamMembership, viewer authz.Viewer) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		CreatedAt: user.CreatedAt,
	}
	if !viewer.IsAdmin && !viewer.IsTeamLead {
		return resp
	}
	role := user.Role
	active := user.IsActive
	resp.Role = &role
	resp.IsActive = &active
	// Privileged viewers always get the teams key, empty array included.
	teams := make([]UserMembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		teams = append(teams, UserMembershipResponse{
			TeamID:   m.TeamID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	resp.Teams = &teams
	return resp
}

// ProjectUsers renders a user list for the given viewer. Memberships are
// keyed by user ID.
func ProjectUsers(users []domain.User, memberships map[string][]domain.TeamMembership, viewer authz.Viewer) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ProjectUser(&users[i], memberships[users[i].ID], viewer))
	}
	return out
}
