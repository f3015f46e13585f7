package postgres

import (
	"context"

	"github.com/google/uuid"

	"agency-service/internal/domain/contact"
	apperrors "agency-service/pkg/errors"
)

type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const messageColumns = "id, name, email, subject, body, handled, created_at"

func (r *ContactRepository) Create(ctx context.Context, input contact.CreateMessageInput) (*contact.Message, error) {
	query := `
		INSERT INTO contact_messages (name, email, subject, body)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + messageColumns

	m := &contact.Message{}
	err := r.db.Pool.QueryRow(ctx, query, input.Name, input.Email, input.Subject, input.Body).Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Handled, &m.CreatedAt,
	)
	if err != nil {
		return nil, errFailedCreateMessage(err)
	}

	return m, nil
}

func (r *ContactRepository) List(ctx context.Context, unhandledOnly bool) ([]*contact.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM contact_messages`
	if unhandledOnly {
		query += " WHERE handled = FALSE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListMessages(err)
	}
	defer rows.Close()

	messages := make([]*contact.Message, 0)
	for rows.Next() {
		m := &contact.Message{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Handled, &m.CreatedAt); err != nil {
			return nil, errFailedScanMessage(err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (r *ContactRepository) MarkHandled(ctx context.Context, id uuid.UUID) error {
	query := "UPDATE contact_messages SET handled = TRUE WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedUpdateMessage(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errMessageNotFound)
	}

	return nil
}
