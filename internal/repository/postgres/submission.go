package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/candidate"
	"agency-service/internal/domain/submission"
	apperrors "agency-service/pkg/errors"
)

type SubmissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = "id, kind, link_id, candidate_id, project_id, file_key, file_name, content_type, size_bytes, payer_name, payer_email, reference, created_at"

func scanSubmission(row pgx.Row) (*submission.Submission, error) {
	s := &submission.Submission{}
	err := row.Scan(
		&s.ID,
		&s.Kind,
		&s.LinkID,
		&s.CandidateID,
		&s.ProjectID,
		&s.FileKey,
		&s.FileName,
		&s.ContentType,
		&s.SizeBytes,
		&s.PayerName,
		&s.PayerEmail,
		&s.Reference,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

const insertSubmissionQuery = `
	INSERT INTO submissions (kind, link_id, candidate_id, project_id, file_key, file_name, content_type, size_bytes, payer_name, payer_email, reference)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + submissionColumns

// RecordOnboarding inserts the submission row, marks the link completed
// and moves the candidate to documents_uploaded, all in one transaction.
// The partial unique index on (candidate_id) for onboarding submissions
// is the authoritative one-submission-per-candidate guard: losing a race
// surfaces here as ErrAlreadySubmitted.
func (r *SubmissionRepository) RecordOnboarding(ctx context.Context, input submission.RecordSubmissionInput) (*submission.Submission, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	s, err := scanSubmission(tx.QueryRow(ctx, insertSubmissionQuery,
		input.Kind, input.LinkID, input.CandidateID, input.ProjectID,
		input.FileKey, input.FileName, input.ContentType, input.SizeBytes,
		input.PayerName, input.PayerEmail, input.Reference))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadySubmitted()
		}
		return nil, errFailedRecordSubmission(err)
	}

	if _, err := tx.Exec(ctx, "UPDATE token_links SET completed = TRUE WHERE id = $1", input.LinkID); err != nil {
		return nil, errFailedCompleteLink(err)
	}

	if _, err := tx.Exec(ctx, "UPDATE candidates SET status = $2, updated_at = NOW() WHERE id = $1",
		input.CandidateID, candidate.StatusDocumentsUploaded); err != nil {
		return nil, errFailedUpdateCandidate(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCommitTransaction(err)
	}

	return s, nil
}

// RecordPayment inserts a payment submission. Payment links accept any
// number of submissions, so there is no derived state to flip.
func (r *SubmissionRepository) RecordPayment(ctx context.Context, input submission.RecordSubmissionInput) (*submission.Submission, error) {
	s, err := scanSubmission(r.db.Pool.QueryRow(ctx, insertSubmissionQuery,
		input.Kind, input.LinkID, input.CandidateID, input.ProjectID,
		input.FileKey, input.FileName, input.ContentType, input.SizeBytes,
		input.PayerName, input.PayerEmail, input.Reference))
	if err != nil {
		return nil, errFailedRecordSubmission(err)
	}

	return s, nil
}

func (r *SubmissionRepository) GetByCandidate(ctx context.Context, candidateID uuid.UUID) (*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE candidate_id = $1 AND kind = 'onboarding'`

	s, err := scanSubmission(r.db.Pool.QueryRow(ctx, query, candidateID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errSubmissionNotFound)
		}
		return nil, errFailedGetSubmission(err)
	}

	return s, nil
}

func (r *SubmissionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE project_id = $1 ORDER BY created_at DESC`

	return r.querySubmissions(ctx, query, projectID)
}

func (r *SubmissionRepository) querySubmissions(ctx context.Context, query string, args ...interface{}) ([]*submission.Submission, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListSubmissions(err)
	}
	defer rows.Close()

	submissions := make([]*submission.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, errFailedScanSubmission(err)
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}
