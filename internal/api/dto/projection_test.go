package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
)

func sampleUser() *domain.User {
	return &domain.User{
		ID:        "u1",
		Email:     "dana@example.com",
		FirstName: "Dana",
		LastName:  "Reyes",
		Role:      domain.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestProjectUserRedactsPrivilegedFields(t *testing.T) {
	resp := ProjectUser(sampleUser(), nil, authz.Viewer{})

	assert.Equal(t, "u1", resp.ID)
	assert.Equal(t, "Dana Reyes", resp.FullName)
	assert.Nil(t, resp.Role)
	assert.Nil(t, resp.IsActive)
	assert.Nil(t, resp.Teams)
}

func TestProjectUserExposesPrivilegedFieldsToAdmins(t *testing.T) {
	memberships := []domain.TeamMembership{
		{ID: "m1", UserID: "u1", TeamID: "team-1", Role: domain.MembershipRoleLead},
	}
	resp := ProjectUser(sampleUser(), memberships, authz.Viewer{IsAdmin: true})

	require.NotNil(t, resp.Role)
	assert.Equal(t, domain.RoleAdmin, *resp.Role)
	require.NotNil(t, resp.IsActive)
	assert.True(t, *resp.IsActive)
	require.NotNil(t, resp.Teams)
	require.Len(t, *resp.Teams, 1)
	assert.Equal(t, "team-1", (*resp.Teams)[0].TeamID)
}

func TestProjectUserExposesPrivilegedFieldsToLeads(t *testing.T) {
	resp := ProjectUser(sampleUser(), nil, authz.Viewer{IsTeamLead: true})

	require.NotNil(t, resp.Role)
	require.NotNil(t, resp.IsActive)
	require.NotNil(t, resp.Teams)
	assert.Empty(t, *resp.Teams)
}

func TestProjectUsersSerializesTeamsKeyForAdmins(t *testing.T) {
	users := []domain.User{*sampleUser()}

	// No memberships at all: the key must still appear, as an empty array.
	out := ProjectUsers(users, nil, authz.Viewer{IsAdmin: true})
	require.Len(t, out, 1)

	raw, err := json.Marshal(out[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"teams":[]`)

	asPlain := ProjectUsers(users, nil, authz.Viewer{})
	raw, err = json.Marshal(asPlain[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"teams"`)
}

func TestProjectUsersCarriesMembershipsThrough(t *testing.T) {
	users := []domain.User{*sampleUser()}
	memberships := map[string][]domain.TeamMembership{
		"u1": {{ID: "m1", UserID: "u1", TeamID: "team-9", Role: domain.MembershipRoleMember}},
	}

	out := ProjectUsers(users, memberships, authz.Viewer{IsTeamLead: true})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Teams)
	require.Len(t, *out[0].Teams, 1)
	assert.Equal(t, "team-9", (*out[0].Teams)[0].TeamID)
}

func TestProjectTeamCapabilitiesAdminOnly(t *testing.T) {
	team := &domain.Team{
		ID:                "team-1",
		Name:              "Support",
		CanViewAllTickets: true,
		CanAssignTickets:  true,
	}

	asAdmin := ProjectTeam(team, 3, authz.Viewer{IsAdmin: true})
	require.NotNil(t, asAdmin.CanViewAllTickets)
	assert.True(t, *asAdmin.CanViewAllTickets)
	require.NotNil(t, asAdmin.CanCloseTickets)
	assert.False(t, *asAdmin.CanCloseTickets)
	assert.Equal(t, 3, asAdmin.MemberCount)

	raw, err := json.Marshal(asAdmin)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"can_assign_tickets":true`)

	// team leads see the same shape as regular users here
	asLead := ProjectTeam(team, 3, authz.Viewer{IsTeamLead: true})
	assert.Nil(t, asLead.CanViewAllTickets)
	assert.Nil(t, asLead.CanAssignTickets)

	asUser := ProjectTeam(team, 3, authz.Viewer{})
	assert.Nil(t, asUser.CanDeleteTickets)
	assert.Equal(t, "Support", asUser.Name)
}

func TestProjectTicketDetail(t *testing.T) {
	category := "cat-1"
	ticket := &domain.Ticket{
		ID:          "tk1",
		Title:       "Printer on fire",
		Description: "It is actually on fire.",
		Status:      domain.TicketStatusInProgress,
		Priority:    domain.TicketPriorityUrgent,
		CategoryID:  &category,
		CreatedBy:   "u1",
	}
	comments := []domain.Comment{
		{ID: "c1", TicketID: "tk1", AuthorID: "u2", Content: "On it."},
	}

	resp := ProjectTicketDetail(ticket, comments)
	assert.Equal(t, "In Progress", resp.StatusLabel)
	assert.Equal(t, "Urgent", resp.PriorityLabel)
	assert.Equal(t, "It is actually on fire.", resp.Description)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "c1", resp.Comments[0].ID)
}

func TestProjectTicketSummariesPreservesOrder(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "tk2", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow},
		{ID: "tk1", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityHigh},
	}

	out := ProjectTicketSummaries(tickets)
	require.Len(t, out, 2)
	assert.Equal(t, "tk2", out[0].ID)
	assert.Equal(t, "tk1", out[1].ID)
}
