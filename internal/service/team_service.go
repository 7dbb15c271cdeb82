package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
	"github.com/quiktik/helpdesk/internal/events"
	"github.com/quiktik/helpdesk/internal/repository"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// TeamService coordinates team and membership management.
type TeamService struct {
	teams       repository.TeamRepository
	memberships repository.MembershipRepository
	users       repository.UserRepository
	engine      *authz.Engine
	dispatcher  events.Dispatcher
}

// TeamDependencies bundles repositories for the team service.
type TeamDependencies struct {
	TeamRepo       repository.TeamRepository
	MembershipRepo repository.MembershipRepository
	UserRepo       repository.UserRepository
	Engine         *authz.Engine
	Dispatcher     events.Dispatcher
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{
		teams:       deps.TeamRepo,
		memberships: deps.MembershipRepo,
		users:       deps.UserRepo,
		engine:      deps.Engine,
		dispatcher:  deps.Dispatcher,
	}
}

// TeamInput carries the writable team fields.
type TeamInput struct {
	Name              string
	CanViewAllTickets bool
	CanAssignTickets  bool
	CanCloseTickets   bool
	CanDeleteTickets  bool
}

// Create registers a new team. Admin only.
func (s *TeamService) Create(ctx context.Context, actor *domain.User, input TeamInput) (*domain.Team, error) {
	if err := s.engine.Authorize(ctx, actor, authz.ActionCreate, authz.CreateTeam{}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("team name required", nil)
	}

	team := &domain.Team{
		Name:              name,
		CanViewAllTickets: input.CanViewAllTickets,
		CanAssignTickets:  input.CanAssignTickets,
		CanCloseTickets:   input.CanCloseTickets,
		CanDeleteTickets:  input.CanDeleteTickets,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicate("team", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// List returns all teams; any authenticated user may view them (the
// capability flags are redacted later for non-admins).
func (s *TeamService) List(ctx context.Context, actor *domain.User) ([]domain.Team, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// Get fetches one team.
func (s *TeamService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Team, error) {
	team, err := s.fetchTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionView, authz.TeamTarget{Team: team}); err != nil {
		return nil, err
	}
	return team, nil
}

// Update applies a partial team update. Admin only.
func (s *TeamService) Update(ctx context.Context, actor *domain.User, id string, input TeamUpdateInput) (*domain.Team, error) {
	team, err := s.fetchTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionEdit, authz.TeamTarget{Team: team}); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("team name required", nil)
		}
		team.Name = name
	}
	if input.CanViewAllTickets != nil {
		team.CanViewAllTickets = *input.CanViewAllTickets
	}
	if input.CanAssignTickets != nil {
		team.CanAssignTickets = *input.CanAssignTickets
	}
	if input.CanCloseTickets != nil {
		team.CanCloseTickets = *input.CanCloseTickets
	}
	if input.CanDeleteTickets != nil {
		team.CanDeleteTickets = *input.CanDeleteTickets
	}

	if err := s.teams.Update(ctx, team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicate("team", map[string]any{"name": team.Name})
		}
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// TeamUpdateInput carries partial team changes. Nil means unchanged.
type TeamUpdateInput struct {
	Name              *string
	CanViewAllTickets *bool
	CanAssignTickets  *bool
	CanCloseTickets   *bool
	CanDeleteTickets  *bool
}

// Delete removes a team and, through the store, its memberships. Admin
// only.
func (s *TeamService) Delete(ctx context.Context, actor *domain.User, id string) error {
	team, err := s.fetchTeam(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionDelete, authz.TeamTarget{Team: team}); err != nil {
		return err
	}
	if err := s.teams.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListMembers returns the memberships of a team.
func (s *TeamService) ListMembers(ctx context.Context, actor *domain.User, teamID string) ([]domain.TeamMembership, error) {
	team, err := s.fetchTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionView, authz.TeamTarget{Team: team}); err != nil {
		return nil, err
	}
	memberships, err := s.memberships.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return memberships, nil
}

// AddMember joins a user to a team. Allowed for admins and leads of that
// team. A user can hold at most one membership per team.
func (s *TeamService) AddMember(ctx context.Context, actor *domain.User, teamID, userID string, role domain.MembershipRole) (*domain.TeamMembership, error) {
	team, err := s.fetchTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionCreate, authz.MembershipTarget{TeamID: team.ID}); err != nil {
		return nil, err
	}

	if role == "" {
		role = domain.MembershipRoleMember
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid membership role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	exists, err := s.memberships.Exists(ctx, userID, team.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("user already in team", map[string]any{"user_id": userID, "team_id": team.ID})
	}

	membership := &domain.TeamMembership{
		UserID: userID,
		TeamID: team.ID,
		Role:   role,
	}
	if err := s.memberships.Add(ctx, membership); err != nil {
		// A concurrent join can still win the race past the Exists check.
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicate("membership", map[string]any{"user_id": userID, "team_id": team.ID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventMemberAdded,
		ActorID: actor.ID,
		Payload: events.MemberAddedPayload{TeamID: team.ID, UserID: userID, Role: role},
	})
	return membership, nil
}

// UpdateMemberRole switches a membership between member and lead. Allowed
// for admins and leads of the membership's team.
func (s *TeamService) UpdateMemberRole(ctx context.Context, actor *domain.User, membershipID string, role domain.MembershipRole) (*domain.TeamMembership, error) {
	membership, err := s.fetchMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionEdit, authz.MembershipTarget{TeamID: membership.TeamID}); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid membership role", map[string]any{"role": role})
	}

	if err := s.memberships.UpdateRole(ctx, membership.ID, role); err != nil {
		return nil, apperrors.MapError(err)
	}
	membership.Role = role
	return membership, nil
}

// RemoveMember deletes a membership. Allowed for admins and leads of the
// membership's team.
func (s *TeamService) RemoveMember(ctx context.Context, actor *domain.User, membershipID string) error {
	membership, err := s.fetchMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionDelete, authz.MembershipTarget{TeamID: membership.TeamID}); err != nil {
		return err
	}
	if err := s.memberships.Remove(ctx, membership.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TeamService) fetchTeam(ctx context.Context, id string) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

func (s *TeamService) fetchMembership(ctx context.Context, id string) (*domain.TeamMembership, error) {
	membership, err := s.memberships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("membership", map[string]any{"membership_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return membership, nil
}

func (s *TeamService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
