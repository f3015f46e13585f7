package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/link"
	apperrors "agency-service/pkg/errors"
)

type LinkRepository struct {
	db *DB
}

func NewLinkRepository(db *DB) *LinkRepository {
	return &LinkRepository{db: db}
}

const linkColumns = "id, kind, candidate_id, project_id, token, active, amount_cents, completed, expires_at, created_by, created_at"

func scanLink(row pgx.Row) (*link.Link, error) {
	l := &link.Link{}
	err := row.Scan(
		&l.ID,
		&l.Kind,
		&l.CandidateID,
		&l.ProjectID,
		&l.Token,
		&l.Active,
		&l.AmountCents,
		&l.Completed,
		&l.ExpiresAt,
		&l.CreatedBy,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

const insertLinkQuery = `
	INSERT INTO token_links (kind, candidate_id, project_id, token, amount_cents, expires_at, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + linkColumns

func (r *LinkRepository) Create(ctx context.Context, input link.CreateLinkInput) (*link.Link, error) {
	l, err := scanLink(r.db.Pool.QueryRow(ctx, insertLinkQuery,
		input.Kind, input.CandidateID, input.ProjectID, input.Token,
		input.AmountCents, input.ExpiresAt, input.CreatedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("link with this token already exists")
		}
		return nil, errFailedCreateLink(err)
	}

	return l, nil
}

// CreateSuperseding deactivates every active link of the same kind owned
// by the same resource before inserting the new one. Both statements run
// in a single transaction; the partial unique index on active onboarding
// links makes the invariant hold even if two issuers race.
func (r *LinkRepository) CreateSuperseding(ctx context.Context, input link.CreateLinkInput) (*link.Link, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	supersede := `
		UPDATE token_links SET active = FALSE
		WHERE kind = $1 AND active = TRUE
		  AND (candidate_id = $2 OR project_id = $3)
	`
	if _, err := tx.Exec(ctx, supersede, input.Kind, input.CandidateID, input.ProjectID); err != nil {
		return nil, errFailedSupersedeLinks(err)
	}

	l, err := scanLink(tx.QueryRow(ctx, insertLinkQuery,
		input.Kind, input.CandidateID, input.ProjectID, input.Token,
		input.AmountCents, input.ExpiresAt, input.CreatedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("link with this token already exists")
		}
		return nil, errFailedCreateLink(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCommitTransaction(err)
	}

	return l, nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*link.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM token_links WHERE id = $1`

	l, err := scanLink(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errLinkNotFound)
		}
		return nil, errFailedGetLink(err)
	}

	return l, nil
}

func (r *LinkRepository) GetByToken(ctx context.Context, token string) (*link.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM token_links WHERE token = $1`

	l, err := scanLink(r.db.Pool.QueryRow(ctx, query, token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errLinkNotFound)
		}
		return nil, errFailedGetLink(err)
	}

	return l, nil
}

func (r *LinkRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*link.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM token_links WHERE candidate_id = $1 ORDER BY created_at DESC`

	return r.queryLinks(ctx, query, candidateID)
}

func (r *LinkRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*link.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM token_links WHERE project_id = $1 ORDER BY created_at DESC`

	return r.queryLinks(ctx, query, projectID)
}

func (r *LinkRepository) queryLinks(ctx context.Context, query string, args ...interface{}) ([]*link.Link, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListLinks(err)
	}
	defer rows.Close()

	links := make([]*link.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, errFailedScanLink(err)
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

func (r *LinkRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*link.Link, error) {
	query := `UPDATE token_links SET active = $2 WHERE id = $1 RETURNING ` + linkColumns

	l, err := scanLink(r.db.Pool.QueryRow(ctx, query, id, active))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errLinkNotFound)
		}
		return nil, errFailedToggleLink(err)
	}

	return l, nil
}

// Extend reactivates the link and pushes its expiry forward. The token
// value is left untouched. Reactivation can trip the partial unique
// index on active onboarding links when it races a fresh issue; the
// loser gets a Conflict.
func (r *LinkRepository) Extend(ctx context.Context, id uuid.UUID, expiresAt time.Time) (*link.Link, error) {
	query := `UPDATE token_links SET active = TRUE, expires_at = $2 WHERE id = $1 RETURNING ` + linkColumns

	l, err := scanLink(r.db.Pool.QueryRow(ctx, query, id, expiresAt))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errLinkNotFound)
		}
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errActiveLinkExists)
		}
		return nil, errFailedExtendLink(err)
	}

	return l, nil
}
