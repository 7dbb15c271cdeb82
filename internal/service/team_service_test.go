package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
	"github.com/quiktik/helpdesk/internal/events"
)

type teamFixture struct {
	svc         *TeamService
	teams       *fakeTeamRepo
	memberships *fakeMembershipRepo
	users       *fakeUserRepo
	dispatcher  *recordingDispatcher
}

func newTeamFixture() *teamFixture {
	teams := newFakeTeamRepo()
	memberships := newFakeMembershipRepo()
	users := newFakeUserRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTeamService(TeamDependencies{
		TeamRepo:       teams,
		MembershipRepo: memberships,
		UserRepo:       users,
		Engine:         authz.NewEngine(memberships),
		Dispatcher:     dispatcher,
	})
	return &teamFixture{svc: svc, teams: teams, memberships: memberships, users: users, dispatcher: dispatcher}
}

func (f *teamFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Role: domain.RoleUser, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *teamFixture) seedTeam(t *testing.T, name string) *domain.Team {
	t.Helper()
	team := &domain.Team{Name: name}
	require.NoError(t, f.teams.Create(context.Background(), team))
	return team
}

func (f *teamFixture) seedMembership(t *testing.T, userID, teamID string, role domain.MembershipRole) *domain.TeamMembership {
	t.Helper()
	membership := &domain.TeamMembership{UserID: userID, TeamID: teamID, Role: role}
	require.NoError(t, f.memberships.Add(context.Background(), membership))
	return membership
}

func adminUser() *domain.User {
	return &domain.User{ID: "admin-1", Role: domain.RoleAdmin, IsActive: true}
}

func TestCreateTeamAdminOnly(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	team, err := f.svc.Create(ctx, adminUser(), TeamInput{Name: "Support", CanAssignTickets: true})
	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)
	assert.True(t, team.CanAssignTickets)

	user := f.seedUser(t, "dana@example.com")
	_, err = f.svc.Create(ctx, user, TeamInput{Name: "Shadow IT"})
	assert.Equal(t, "FORBIDDEN", code(t, err))
}

func TestCreateTeamDuplicateName(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, adminUser(), TeamInput{Name: "Support"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, adminUser(), TeamInput{Name: "Support"})
	assert.Equal(t, "DUPLICATE_ENTITY", code(t, err))
}

func TestAddMemberAsLeadOfThatTeam(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()
	team := f.seedTeam(t, "Support")
	lead := f.seedUser(t, "lead@example.com")
	f.seedMembership(t, lead.ID, team.ID, domain.MembershipRoleLead)
	newcomer := f.seedUser(t, "new@example.com")

	membership, err := f.svc.AddMember(ctx, lead, team.ID, newcomer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipRoleMember, membership.Role)

	added := f.dispatcher.eventsOfType(events.EventMemberAdded)
	require.Len(t, added, 1)
}

func TestAddMemberDeniedForLeadOfOtherTeam(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()
	team := f.seedTeam(t, "Support")
	otherTeam := f.seedTeam(t, "Network")
	lead := f.seedUser(t, "lead@example.com")
	f.seedMembership(t, lead.ID, otherTeam.ID, domain.MembershipRoleLead)
	newcomer := f.seedUser(t, "new@example.com")

	_, err := f.svc.AddMember(ctx, lead, team.ID, newcomer.ID, domain.MembershipRoleMember)
	assert.Equal(t, "FORBIDDEN", code(t, err))
}

func TestAddMemberTwiceConflicts(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()
	team := f.seedTeam(t, "Support")
	user := f.seedUser(t, "dana@example.com")

	_, err := f.svc.AddMember(ctx, adminUser(), team.ID, user.ID, domain.MembershipRoleMember)
	require.NoError(t, err)

	_, err = f.svc.AddMember(ctx, adminUser(), team.ID, user.ID, domain.MembershipRoleMember)
	assert.Equal(t, "CONFLICT", code(t, err))
}

func TestAddMemberUnknownUser(t *testing.T) {
	f := newTeamFixture()
	team := f.seedTeam(t, "Support")

	_, err := f.svc.AddMember(context.Background(), adminUser(), team.ID, "no-such-user", domain.MembershipRoleMember)
	assert.Equal(t, "NOT_FOUND", code(t, err))
}

func TestUpdateMemberRolePromotesToLead(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()
	team := f.seedTeam(t, "Support")
	user := f.seedUser(t, "dana@example.com")
	membership := f.seedMembership(t, user.ID, team.ID, domain.MembershipRoleMember)

	updated, err := f.svc.UpdateMemberRole(ctx, adminUser(), membership.ID, domain.MembershipRoleLead)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipRoleLead, updated.Role)

	// the promotion is visible to the authorization directory
	led, err := f.memberships.LedTeamIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, led, team.ID)
}

func TestRemoveMember(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()
	team := f.seedTeam(t, "Support")
	user := f.seedUser(t, "dana@example.com")
	membership := f.seedMembership(t, user.ID, team.ID, domain.MembershipRoleMember)

	require.NoError(t, f.svc.RemoveMember(ctx, adminUser(), membership.ID))

	err := f.svc.RemoveMember(ctx, adminUser(), membership.ID)
	assert.Equal(t, "NOT_FOUND", code(t, err))
}

func TestTeamUpdateAndDeleteAdminOnly(t *testing.T) {
	f := newTeamFixture()
	ctx := context.Background()
	team := f.seedTeam(t, "Support")
	user := f.seedUser(t, "dana@example.com")

	newName := "Tier 1"
	_, err := f.svc.Update(ctx, user, team.ID, TeamUpdateInput{Name: &newName})
	assert.Equal(t, "FORBIDDEN", code(t, err))

	updated, err := f.svc.Update(ctx, adminUser(), team.ID, TeamUpdateInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Tier 1", updated.Name)

	assert.Equal(t, "FORBIDDEN", code(t, f.svc.Delete(ctx, user, team.ID)))
	require.NoError(t, f.svc.Delete(ctx, adminUser(), team.ID))
}
