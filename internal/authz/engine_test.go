package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiktik/helpdesk/internal/domain"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// fakeDirectory serves membership facts from in-memory maps.
type fakeDirectory struct {
	leads   map[string][]string
	members map[string][]string
}

func (f *fakeDirectory) LedTeamIDs(_ context.Context, userID string) ([]string, error) {
	return f.leads[userID], nil
}

func (f *fakeDirectory) TeamIDsOf(_ context.Context, userID string) ([]string, error) {
	return f.members[userID], nil
}

func newTestEngine(dir *fakeDirectory) *Engine {
	if dir == nil {
		dir = &fakeDirectory{}
	}
	return NewEngine(dir)
}

func admin() *domain.User {
	return &domain.User{ID: "admin-1", Role: domain.RoleAdmin, IsActive: true}
}

func regular(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleUser, IsActive: true}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	return domainErr.Code
}

func TestAuthorizeNilActor(t *testing.T) {
	engine := newTestEngine(nil)

	err := engine.Authorize(context.Background(), nil, ActionView, TicketTarget{})
	assert.Equal(t, "UNAUTHENTICATED", errCode(t, err))
}

func TestAdminBypass(t *testing.T) {
	engine := newTestEngine(nil)
	ctx := context.Background()

	assert.NoError(t, engine.Authorize(ctx, admin(), ActionCreate, CreateTeam{}))
	assert.NoError(t, engine.Authorize(ctx, admin(), ActionCreate, CreateCategory{}))
	assert.NoError(t, engine.Authorize(ctx, admin(), ActionDelete, TeamTarget{Team: &domain.Team{ID: "t1"}}))
	assert.NoError(t, engine.Authorize(ctx, admin(), ActionEdit, TicketTarget{Ticket: &domain.Ticket{ID: "tk1", CreatedBy: "someone-else"}}))
}

func TestSelfDeactivationDeniedEvenForAdmin(t *testing.T) {
	engine := newTestEngine(nil)
	actor := admin()

	err := engine.Authorize(context.Background(), actor, ActionDeactivate, UserTarget{User: actor})
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestDeactivateOtherUser(t *testing.T) {
	engine := newTestEngine(nil)
	ctx := context.Background()
	target := regular("u2")

	assert.NoError(t, engine.Authorize(ctx, admin(), ActionDeactivate, UserTarget{User: target}))

	err := engine.Authorize(ctx, regular("u1"), ActionDeactivate, UserTarget{User: target})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestRegularUserCannotCreateTeamsOrCategories(t *testing.T) {
	engine := newTestEngine(nil)
	ctx := context.Background()
	actor := regular("u1")

	assert.Equal(t, "FORBIDDEN", errCode(t, engine.Authorize(ctx, actor, ActionCreate, CreateTeam{})))
	assert.Equal(t, "FORBIDDEN", errCode(t, engine.Authorize(ctx, actor, ActionCreate, CreateCategory{})))
}

func TestAnyUserCanCreateTicketsAndComments(t *testing.T) {
	engine := newTestEngine(nil)
	ctx := context.Background()
	actor := regular("u1")

	assert.NoError(t, engine.Authorize(ctx, actor, ActionCreate, CreateTicket{}))
	assert.NoError(t, engine.Authorize(ctx, actor, ActionCreate, CreateComment{Ticket: &domain.Ticket{ID: "tk1"}}))
}

func TestTicketEditRules(t *testing.T) {
	dir := &fakeDirectory{leads: map[string][]string{"lead-1": {"team-1"}}}
	engine := newTestEngine(dir)
	ctx := context.Background()
	ticket := &domain.Ticket{ID: "tk1", CreatedBy: "creator-1"}

	// creator may edit and delete
	assert.NoError(t, engine.Authorize(ctx, regular("creator-1"), ActionEdit, TicketTarget{Ticket: ticket}))
	assert.NoError(t, engine.Authorize(ctx, regular("creator-1"), ActionDelete, TicketTarget{Ticket: ticket}))

	// a lead of any team may edit regardless of which team they lead
	assert.NoError(t, engine.Authorize(ctx, regular("lead-1"), ActionEdit, TicketTarget{Ticket: ticket}))

	// everyone else is denied
	err := engine.Authorize(ctx, regular("stranger"), ActionEdit, TicketTarget{Ticket: ticket})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestTicketViewOpenToAllAuthenticated(t *testing.T) {
	engine := newTestEngine(nil)
	ticket := &domain.Ticket{ID: "tk1", CreatedBy: "creator-1"}

	assert.NoError(t, engine.Authorize(context.Background(), regular("stranger"), ActionView, TicketTarget{Ticket: ticket}))
}

func TestTicketAssignGate(t *testing.T) {
	dir := &fakeDirectory{leads: map[string][]string{"lead-1": {"team-1"}}}
	engine := newTestEngine(dir)
	ctx := context.Background()
	ticket := &domain.Ticket{ID: "tk1", CreatedBy: "creator-1"}

	assert.NoError(t, engine.Authorize(ctx, regular("lead-1"), ActionAssign, TicketTarget{Ticket: ticket}))

	// even the creator cannot assign without lead or admin standing
	err := engine.Authorize(ctx, regular("creator-1"), ActionAssign, TicketTarget{Ticket: ticket})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestCommentModificationAuthorOnly(t *testing.T) {
	engine := newTestEngine(nil)
	ctx := context.Background()
	comment := &domain.Comment{ID: "c1", AuthorID: "author-1"}

	assert.NoError(t, engine.Authorize(ctx, regular("author-1"), ActionEdit, CommentTarget{Comment: comment}))
	assert.NoError(t, engine.Authorize(ctx, admin(), ActionDelete, CommentTarget{Comment: comment}))

	err := engine.Authorize(ctx, regular("other"), ActionDelete, CommentTarget{Comment: comment})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestMembershipManagementRequiresLeadOfThatTeam(t *testing.T) {
	dir := &fakeDirectory{leads: map[string][]string{"lead-1": {"team-1"}}}
	engine := newTestEngine(dir)
	ctx := context.Background()

	assert.NoError(t, engine.Authorize(ctx, regular("lead-1"), ActionEdit, MembershipTarget{TeamID: "team-1"}))

	// leading a different team is not enough
	err := engine.Authorize(ctx, regular("lead-1"), ActionEdit, MembershipTarget{TeamID: "team-2"})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUserVisibilityRules(t *testing.T) {
	dir := &fakeDirectory{leads: map[string][]string{"lead-1": {"team-1"}}}
	engine := newTestEngine(dir)
	ctx := context.Background()
	target := regular("u2")

	// self view always allowed
	assert.NoError(t, engine.Authorize(ctx, target, ActionView, UserTarget{User: target}))

	// leads may view anyone
	assert.NoError(t, engine.Authorize(ctx, regular("lead-1"), ActionView, UserTarget{User: target}))

	// plain users may not view others
	err := engine.Authorize(ctx, regular("u3"), ActionView, UserTarget{User: target})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUserEditSelfOnlyForNonAdmins(t *testing.T) {
	dir := &fakeDirectory{leads: map[string][]string{"lead-1": {"team-1"}}}
	engine := newTestEngine(dir)
	ctx := context.Background()
	target := regular("u2")

	assert.NoError(t, engine.Authorize(ctx, target, ActionEdit, UserTarget{User: target}))

	// lead standing does not grant edit on other accounts
	err := engine.Authorize(ctx, regular("lead-1"), ActionEdit, UserTarget{User: target})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestViewerFor(t *testing.T) {
	dir := &fakeDirectory{leads: map[string][]string{"lead-1": {"team-1"}}}
	engine := newTestEngine(dir)
	ctx := context.Background()

	viewer, err := engine.ViewerFor(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, Viewer{}, viewer)

	viewer, err = engine.ViewerFor(ctx, admin())
	require.NoError(t, err)
	assert.True(t, viewer.IsAdmin)
	assert.False(t, viewer.IsTeamLead)

	viewer, err = engine.ViewerFor(ctx, regular("lead-1"))
	require.NoError(t, err)
	assert.False(t, viewer.IsAdmin)
	assert.True(t, viewer.IsTeamLead)

	viewer, err = engine.ViewerFor(ctx, regular("u9"))
	require.NoError(t, err)
	assert.Equal(t, Viewer{}, viewer)
}
