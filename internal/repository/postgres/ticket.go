package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/ticket"
	apperrors "agency-service/pkg/errors"
)

type TicketRepository struct {
	db *DB
}

func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = "id, project_id, opened_by, subject, body, status, created_at, updated_at"

func scanTicket(row pgx.Row) (*ticket.Ticket, error) {
	t := &ticket.Ticket{}
	err := row.Scan(&t.ID, &t.ProjectID, &t.OpenedBy, &t.Subject, &t.Body, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TicketRepository) Create(ctx context.Context, input ticket.CreateTicketInput) (*ticket.Ticket, error) {
	query := `
		INSERT INTO tickets (project_id, opened_by, subject, body)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + ticketColumns

	t, err := scanTicket(r.db.Pool.QueryRow(ctx, query, input.ProjectID, input.OpenedBy, input.Subject, input.Body))
	if err != nil {
		return nil, errFailedCreateTicket(err)
	}

	return t, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	t, err := scanTicket(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errTicketNotFound)
		}
		return nil, errFailedGetTicket(err)
	}

	return t, nil
}

func (r *TicketRepository) List(ctx context.Context) ([]*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`

	return r.queryTickets(ctx, query)
}

func (r *TicketRepository) ListByOpener(ctx context.Context, accountID uuid.UUID) ([]*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE opened_by = $1 ORDER BY created_at DESC`

	return r.queryTickets(ctx, query, accountID)
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...interface{}) ([]*ticket.Ticket, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListTickets(err)
	}
	defer rows.Close()

	tickets := make([]*ticket.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, errFailedScanTicket(err)
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

func (r *TicketRepository) SetStatus(ctx context.Context, id uuid.UUID, status ticket.Status) error {
	query := "UPDATE tickets SET status = $2, updated_at = NOW() WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return errFailedUpdateTicket(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errTicketNotFound)
	}

	return nil
}

func (r *TicketRepository) AddComment(ctx context.Context, input ticket.AddCommentInput) (*ticket.Comment, error) {
	query := `
		INSERT INTO ticket_comments (ticket_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, ticket_id, author_id, body, created_at
	`

	c := &ticket.Comment{}
	err := r.db.Pool.QueryRow(ctx, query, input.TicketID, input.AuthorID, input.Body).Scan(
		&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt,
	)
	if err != nil {
		return nil, errFailedAddComment(err)
	}

	return c, nil
}

func (r *TicketRepository) ListComments(ctx context.Context, ticketID uuid.UUID) ([]*ticket.Comment, error) {
	query := `
		SELECT id, ticket_id, author_id, body, created_at
		FROM ticket_comments WHERE ticket_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, errFailedListComments(err)
	}
	defer rows.Close()

	comments := make([]*ticket.Comment, 0)
	for rows.Next() {
		c := &ticket.Comment{}
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, errFailedScanComment(err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
