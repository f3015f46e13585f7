package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/candidate"
	apperrors "agency-service/pkg/errors"
)

type CandidateRepository struct {
	db *DB
}

func NewCandidateRepository(db *DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

const candidateColumns = "id, name, email, position, status, created_at, updated_at"

func scanCandidate(row pgx.Row) (*candidate.Candidate, error) {
	c := &candidate.Candidate{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Position, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CandidateRepository) Create(ctx context.Context, input candidate.CreateCandidateInput) (*candidate.Candidate, error) {
	query := `
		INSERT INTO candidates (name, email, position)
		VALUES ($1, $2, $3)
		RETURNING ` + candidateColumns

	c, err := scanCandidate(r.db.Pool.QueryRow(ctx, query, input.Name, input.Email, input.Position))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("candidate with this email already exists")
		}
		return nil, errFailedCreateCandidate(err)
	}

	return c, nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	c, err := scanCandidate(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errCandidateNotFound)
		}
		return nil, errFailedGetCandidate(err)
	}

	return c, nil
}

func (r *CandidateRepository) List(ctx context.Context) ([]*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListCandidates(err)
	}
	defer rows.Close()

	candidates := make([]*candidate.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, errFailedScanCandidate(err)
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

func (r *CandidateRepository) Update(ctx context.Context, id uuid.UUID, input candidate.UpdateCandidateInput) error {
	query := "UPDATE candidates SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.Name != nil {
		argCount++
		query += fmt.Sprintf(", name = $%d", argCount)
		args = append(args, *input.Name)
	}

	if input.Position != nil {
		argCount++
		query += fmt.Sprintf(", position = $%d", argCount)
		args = append(args, *input.Position)
	}

	if input.Status != nil {
		argCount++
		query += fmt.Sprintf(", status = $%d", argCount)
		args = append(args, *input.Status)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return errFailedUpdateCandidate(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errCandidateNotFound)
	}

	return nil
}
