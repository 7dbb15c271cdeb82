package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quiktik/helpdesk/internal/auth"
	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
	"github.com/quiktik/helpdesk/internal/events"
	"github.com/quiktik/helpdesk/internal/repository"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// UserService coordinates account management flows.
type UserService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	engine      *authz.Engine
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	MembershipRepo repository.MembershipRepository
	Engine         *authz.Engine
	Dispatcher     events.Dispatcher
	BcryptCost     int
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		memberships: deps.MembershipRepo,
		engine:      deps.Engine,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  deps.BcryptCost,
	}
}

// CreateUserInput is the admin user-creation payload; unlike
// self-registration it accepts a role.
type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      domain.Role
}

// UserUpdateInput carries the mutable user fields. Nil means unchanged.
type UserUpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *domain.Role
	IsActive  *bool
}

// List returns every account. Only admins and team leads may enumerate
// users.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	viewer, err := s.engine.ViewerFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin && !viewer.IsTeamLead {
		return nil, apperrors.NewForbidden("permission denied")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Create provisions an account with an explicit role. Admin only.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required")
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicate("user", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Get fetches a single user after an authorization check.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	user, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionView, authz.UserTarget{User: user}); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial update. Admins may change names, role, and
// active state of anyone; everyone else may change only their own name
// fields, and any privileged fields in the payload are ignored.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionEdit, authz.UserTarget{User: user}); err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if actor.IsAdmin() {
		if input.Role != nil {
			if !input.Role.Valid() {
				return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
			}
			user.Role = *input.Role
		}
		if input.IsActive != nil {
			if !*input.IsActive {
				// Disabling through edit is still deactivation; route it
				// through the same rule so an admin cannot disable
				// themself.
				if err := s.engine.Authorize(ctx, actor, authz.ActionDeactivate, authz.UserTarget{User: user}); err != nil {
					return nil, err
				}
			}
			user.IsActive = *input.IsActive
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Deactivate soft-disables an account. Admin only, never on yourself.
func (s *UserService) Deactivate(ctx context.Context, actor *domain.User, id string) error {
	user, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionDeactivate, authz.UserTarget{User: user}); err != nil {
		return err
	}

	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventUserDeactivated,
		ActorID: actor.ID,
		Payload: events.UserDeactivatedPayload{UserID: user.ID},
	})
	return nil
}

// MembershipsOf lists the team memberships of a user, for serialization.
func (s *UserService) MembershipsOf(ctx context.Context, userID string) ([]domain.TeamMembership, error) {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return memberships, nil
}

func (s *UserService) fetch(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
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
