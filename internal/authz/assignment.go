package authz

import (
	"context"

	"github.com/quiktik/helpdesk/internal/domain"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// AssignmentRequest carries the two candidate assignment targets. Either,
// both, or neither may be present; both nil means unassign.
type AssignmentRequest struct {
	TargetUserID *string
	TargetTeamID *string
}

// AuthorizeAssignment validates the assignment targets against the actor's
// scope. Admins pass unconditionally. A team lead may assign only to
// members of teams they lead and only to those teams themselves; each
// target is validated independently. Everyone else is denied. Target
// existence is the caller's concern and must be resolved before this runs.
func (e *Engine) AuthorizeAssignment(ctx context.Context, actor *domain.User, req AssignmentRequest) error {
	if actor == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if actor.IsAdmin() {
		return nil
	}

	led, err := e.directory.LedTeamIDs(ctx, actor.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if len(led) == 0 {
		return apperrors.NewForbidden("only admins and team leads can assign tickets")
	}
	ledSet := make(map[string]struct{}, len(led))
	for _, id := range led {
		ledSet[id] = struct{}{}
	}

	if req.TargetUserID != nil {
		memberOf, err := e.directory.TeamIDsOf(ctx, *req.TargetUserID)
		if err != nil {
			return apperrors.MapError(err)
		}
		inScope := false
		for _, id := range memberOf {
			if _, ok := ledSet[id]; ok {
				inScope = true
				break
			}
		}
		if !inScope {
			return apperrors.NewForbidden("can only assign to members of your teams")
		}
	}

	if req.TargetTeamID != nil {
		if _, ok := ledSet[*req.TargetTeamID]; !ok {
			return apperrors.NewForbidden("can only assign to your own teams")
		}
	}

	return nil
}
