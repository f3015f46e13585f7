package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"agency-service/internal/domain/account"
	"agency-service/internal/domain/project"
	apperrors "agency-service/pkg/errors"
)

// Actor is the authenticated identity a predicate is evaluated for.
type Actor struct {
	AccountID uuid.UUID
	Role      account.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == account.RoleAdmin
}

type MembershipReader interface {
	Get(ctx context.Context, projectID, accountID uuid.UUID) (*project.Membership, error)
}

// Authorizer decides what an actor may do on a project. Administrators
// pass unconditionally; everyone else needs a membership row with the
// matching capability flag. Predicates always read current store state;
// nothing is cached, so a revoked membership stops working immediately.
type Authorizer struct {
	memberships MembershipReader
}

func New(memberships MembershipReader) *Authorizer {
	return &Authorizer{memberships: memberships}
}

func (a *Authorizer) CanEditProject(ctx context.Context, actor Actor, projectID uuid.UUID) (bool, error) {
	return a.allowed(ctx, actor, projectID, func(m *project.Membership) bool {
		return m.CanEdit
	})
}

func (a *Authorizer) CanManagePayments(ctx context.Context, actor Actor, projectID uuid.UUID) (bool, error) {
	return a.allowed(ctx, actor, projectID, func(m *project.Membership) bool {
		return m.CanManagePayments
	})
}

// CanViewProject is satisfied by any membership row on the project; the
// capability flags only gate mutations.
func (a *Authorizer) CanViewProject(ctx context.Context, actor Actor, projectID uuid.UUID) (bool, error) {
	return a.allowed(ctx, actor, projectID, func(*project.Membership) bool {
		return true
	})
}

func (a *Authorizer) allowed(ctx context.Context, actor Actor, projectID uuid.UUID, flag func(*project.Membership) bool) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}

	m, err := a.memberships.Get(ctx, projectID, actor.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return flag(m), nil
}

// RequireEditProject converts a false predicate into ErrForbidden for use
// as a request gate.
func (a *Authorizer) RequireEditProject(ctx context.Context, actor Actor, projectID uuid.UUID) error {
	ok, err := a.CanEditProject(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("no edit permission on this project")
	}
	return nil
}

func (a *Authorizer) RequireManagePayments(ctx context.Context, actor Actor, projectID uuid.UUID) error {
	ok, err := a.CanManagePayments(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("no payment permission on this project")
	}
	return nil
}
