package authz

import (
	"context"

	"github.com/quiktik/helpdesk/internal/domain"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// MembershipDirectory exposes the relationship facts the engine evaluates.
// The membership repository implements it; the engine holds no state of its own.
type MembershipDirectory interface {
	// LedTeamIDs returns the IDs of every team where the user holds a lead
	// membership.
	LedTeamIDs(ctx context.Context, userID string) ([]string, error)
	// TeamIDsOf returns the IDs of every team the user belongs to.
	TeamIDsOf(ctx context.Context, userID string) ([]string, error)
}

// Engine decides allow/deny for every (actor, action, target) triple. It is
// consulted before any mutation; a denial carries no side effects.
type Engine struct {
	directory MembershipDirectory
}

// NewEngine constructs the engine.
func NewEngine(directory MembershipDirectory) *Engine {
	return &Engine{directory: directory}
}

// Authorize evaluates the decision rules in precedence order and returns
// nil on allow. Denials are typed: Unauthenticated for a missing actor,
// Conflict for self-deactivation, Forbidden otherwise.
func (e *Engine) Authorize(ctx context.Context, actor *domain.User, action Action, target Target) error {
	if actor == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}

	// Self-deactivation is denied before the admin bypass: it is the one
	// rule that binds even the highest privilege level.
	if action == ActionDeactivate {
		userTarget, ok := target.(UserTarget)
		if !ok || userTarget.User == nil {
			return apperrors.NewForbidden("deactivate applies to users only")
		}
		if userTarget.User.ID == actor.ID {
			return apperrors.NewConflict("cannot deactivate yourself", nil)
		}
		if actor.IsAdmin() {
			return nil
		}
		return apperrors.NewForbidden("admin access required")
	}

	if actor.IsAdmin() {
		return nil
	}

	switch t := target.(type) {
	case CreateTeam, CreateCategory:
		return apperrors.NewForbidden("admin access required")
	case CreateTicket, CreateComment:
		return nil
	case TeamTarget:
		if action == ActionView {
			return nil
		}
		return apperrors.NewForbidden("admin access required")
	case MembershipTarget:
		return e.requireLeadOf(ctx, actor, t.TeamID)
	case CategoryTarget:
		if action == ActionView {
			return nil
		}
		return apperrors.NewForbidden("admin access required")
	case TicketTarget:
		return e.authorizeTicket(ctx, actor, action, t.Ticket)
	case CommentTarget:
		if action == ActionView {
			return nil
		}
		if t.Comment != nil && t.Comment.AuthorID == actor.ID {
			return nil
		}
		return apperrors.NewForbidden("only the comment author can modify it")
	case UserTarget:
		return e.authorizeUser(ctx, actor, action, t.User)
	}
	return apperrors.NewForbidden("action not permitted")
}

func (e *Engine) authorizeTicket(ctx context.Context, actor *domain.User, action Action, ticket *domain.Ticket) error {
	switch action {
	case ActionView:
		return nil
	case ActionAssign:
		// Target scoping is evaluated separately by AuthorizeAssignment;
		// this gate only requires assignment privilege.
		lead, err := e.isTeamLead(ctx, actor)
		if err != nil {
			return apperrors.MapError(err)
		}
		if lead {
			return nil
		}
		return apperrors.NewForbidden("only admins and team leads can assign tickets")
	case ActionEdit, ActionDelete:
		if ticket != nil && ticket.CreatedBy == actor.ID {
			return nil
		}
		// A lead of any team may modify any ticket; the grant is
		// deliberately not scoped to the lead's own teams.
		lead, err := e.isTeamLead(ctx, actor)
		if err != nil {
			return apperrors.MapError(err)
		}
		if lead {
			return nil
		}
		return apperrors.NewForbidden("only the creator, a team lead, or an admin can modify this ticket")
	}
	return apperrors.NewForbidden("action not permitted")
}

func (e *Engine) authorizeUser(ctx context.Context, actor *domain.User, action Action, target *domain.User) error {
	if target == nil {
		return apperrors.NewForbidden("action not permitted")
	}
	switch action {
	case ActionView:
		if actor.ID == target.ID {
			return nil
		}
		lead, err := e.isTeamLead(ctx, actor)
		if err != nil {
			return apperrors.MapError(err)
		}
		if lead {
			return nil
		}
		return apperrors.NewForbidden("permission denied")
	case ActionEdit:
		// Non-admin self-edit is allowed; the mutable field set is
		// narrowed to name fields by the service layer.
		if actor.ID == target.ID {
			return nil
		}
		return apperrors.NewForbidden("permission denied")
	}
	return apperrors.NewForbidden("action not permitted")
}

func (e *Engine) requireLeadOf(ctx context.Context, actor *domain.User, teamID string) error {
	led, err := e.directory.LedTeamIDs(ctx, actor.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, id := range led {
		if id == teamID {
			return nil
		}
	}
	return apperrors.NewForbidden("must be a lead of this team")
}

func (e *Engine) isTeamLead(ctx context.Context, actor *domain.User) (bool, error) {
	led, err := e.directory.LedTeamIDs(ctx, actor.ID)
	if err != nil {
		return false, err
	}
	return len(led) > 0, nil
}

// Viewer captures the capabilities field-visibility projection depends on.
type Viewer struct {
	IsAdmin    bool
	IsTeamLead bool
}

// ViewerFor derives projection capabilities for an actor. A nil actor has
// no capabilities.
func (e *Engine) ViewerFor(ctx context.Context, actor *domain.User) (Viewer, error) {
	if actor == nil {
		return Viewer{}, nil
	}
	lead, err := e.isTeamLead(ctx, actor)
	if err != nil {
		return Viewer{}, apperrors.MapError(err)
	}
	return Viewer{IsAdmin: actor.IsAdmin(), IsTeamLead: lead}, nil
}
