package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
	"github.com/quiktik/helpdesk/internal/events"
	"github.com/quiktik/helpdesk/internal/repository"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// AssignmentService routes tickets to users and teams under the
// assignment policy.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	teams      repository.TeamRepository
	engine     *authz.Engine
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories for the assignment service.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	TeamRepo   repository.TeamRepository
	Engine     *authz.Engine
	Dispatcher events.Dispatcher
}

// NewAssignmentService constructs the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		teams:      deps.TeamRepo,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
	}
}

// Assign sets a ticket's assignee and/or assigned team in one step. Both
// targets nil clears the assignment; that is allowed for any actor who
// passes the assignment gate, so repeating an unassign succeeds. Targets
// are resolved before policy runs, so a dangling reference is not-found
// rather than a denial.
func (s *AssignmentService) Assign(ctx context.Context, actor *domain.User, ticketID string, targetUserID, targetTeamID *string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionAssign, authz.TicketTarget{Ticket: ticket}); err != nil {
		return nil, err
	}

	if targetUserID != nil {
		if _, err := s.users.GetByID(ctx, *targetUserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("user", map[string]any{"user_id": *targetUserID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	if targetTeamID != nil {
		if _, err := s.teams.GetByID(ctx, *targetTeamID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("team", map[string]any{"team_id": *targetTeamID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	req := authz.AssignmentRequest{TargetUserID: targetUserID, TargetTeamID: targetTeamID}
	if err := s.engine.AuthorizeAssignment(ctx, actor, req); err != nil {
		return nil, err
	}

	updated, err := s.tickets.UpdateAssignment(ctx, ticket.ID, targetUserID, targetTeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticket.ID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketAssigned,
		ActorID: actor.ID,
		Payload: events.TicketAssignedPayload{
			TicketID:       updated.ID,
			AssignedTo:     updated.AssignedTo,
			AssignedToTeam: updated.AssignedToTeam,
		},
	})
	return updated, nil
}

func (s *AssignmentService) fetchTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *AssignmentService) publish(ctx context.Context, event events.Event) {
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
