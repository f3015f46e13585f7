package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/project"
	apperrors "agency-service/pkg/errors"
)

type MembershipRepository struct {
	db *DB
}

func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

const membershipColumns = "project_id, account_id, can_edit, can_manage_payments, granted_by, granted_at"

func scanMembership(row pgx.Row) (*project.Membership, error) {
	m := &project.Membership{}
	err := row.Scan(
		&m.ProjectID,
		&m.AccountID,
		&m.CanEdit,
		&m.CanManagePayments,
		&m.GrantedBy,
		&m.GrantedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Grant upserts on the (project_id, account_id) unique constraint so a
// re-grant replaces the existing row's flags instead of adding a second
// row. The constraint stays authoritative under concurrent grants.
func (r *MembershipRepository) Grant(ctx context.Context, input project.GrantMembershipInput) (*project.Membership, error) {
	query := `
		INSERT INTO project_memberships (project_id, account_id, can_edit, can_manage_payments, granted_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id, account_id) DO UPDATE
		SET can_edit = EXCLUDED.can_edit,
		    can_manage_payments = EXCLUDED.can_manage_payments,
		    granted_by = EXCLUDED.granted_by,
		    granted_at = NOW()
		RETURNING ` + membershipColumns

	m, err := scanMembership(r.db.Pool.QueryRow(ctx, query,
		input.ProjectID, input.AccountID, input.CanEdit, input.CanManagePayments, input.GrantedBy))
	if err != nil {
		return nil, errFailedGrantMembership(err)
	}

	return m, nil
}

func (r *MembershipRepository) Get(ctx context.Context, projectID, accountID uuid.UUID) (*project.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM project_memberships WHERE project_id = $1 AND account_id = $2`

	m, err := scanMembership(r.db.Pool.QueryRow(ctx, query, projectID, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errMembershipNotFound)
		}
		return nil, errFailedGetMembership(err)
	}

	return m, nil
}

func (r *MembershipRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*project.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM project_memberships WHERE project_id = $1 ORDER BY granted_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, errFailedListMemberships(err)
	}
	defer rows.Close()

	memberships := make([]*project.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, errFailedScanMembership(err)
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

func (r *MembershipRepository) Revoke(ctx context.Context, projectID, accountID uuid.UUID) error {
	query := "DELETE FROM project_memberships WHERE project_id = $1 AND account_id = $2"

	result, err := r.db.Pool.Exec(ctx, query, projectID, accountID)
	if err != nil {
		return errFailedRevokeMembership(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errMembershipNotFound)
	}

	return nil
}
