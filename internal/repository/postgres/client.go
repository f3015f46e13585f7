package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/client"
	apperrors "agency-service/pkg/errors"
)

type ClientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = "id, name, contact_name, contact_email, created_at, updated_at"

func scanClient(row pgx.Row) (*client.Client, error) {
	c := &client.Client{}
	err := row.Scan(&c.ID, &c.Name, &c.ContactName, &c.ContactEmail, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) Create(ctx context.Context, input client.CreateClientInput) (*client.Client, error) {
	query := `
		INSERT INTO clients (name, contact_name, contact_email)
		VALUES ($1, $2, $3)
		RETURNING ` + clientColumns

	c, err := scanClient(r.db.Pool.QueryRow(ctx, query, input.Name, input.ContactName, input.ContactEmail))
	if err != nil {
		return nil, errFailedCreateClient(err)
	}

	return c, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errClientNotFound)
		}
		return nil, errFailedGetClient(err)
	}

	return c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name`

	return r.queryClients(ctx, query)
}

// ListByMember returns only clients reachable through the account's
// membership rows, which is how staff visibility is scoped.
func (r *ClientRepository) ListByMember(ctx context.Context, accountID uuid.UUID) ([]*client.Client, error) {
	query := `
		SELECT DISTINCT c.id, c.name, c.contact_name, c.contact_email, c.created_at, c.updated_at
		FROM clients c
		INNER JOIN projects p ON p.client_id = c.id
		INNER JOIN project_memberships pm ON pm.project_id = p.id
		WHERE pm.account_id = $1
		ORDER BY c.name
	`

	return r.queryClients(ctx, query, accountID)
}

// VisibleToMember is the single-row form of the ListByMember join, used
// to gate direct lookups the same way the list is scoped.
func (r *ClientRepository) VisibleToMember(ctx context.Context, clientID, accountID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM projects p
			INNER JOIN project_memberships pm ON pm.project_id = p.id
			WHERE p.client_id = $1 AND pm.account_id = $2
		)
	`

	var visible bool
	if err := r.db.Pool.QueryRow(ctx, query, clientID, accountID).Scan(&visible); err != nil {
		return false, errFailedCheckClientAccess(err)
	}

	return visible, nil
}

func (r *ClientRepository) queryClients(ctx context.Context, query string, args ...interface{}) ([]*client.Client, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListClients(err)
	}
	defer rows.Close()

	clients := make([]*client.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, errFailedScanClient(err)
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, id uuid.UUID, input client.UpdateClientInput) error {
	query := "UPDATE clients SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.Name != nil {
		argCount++
		query += fmt.Sprintf(", name = $%d", argCount)
		args = append(args, *input.Name)
	}

	if input.ContactName != nil {
		argCount++
		query += fmt.Sprintf(", contact_name = $%d", argCount)
		args = append(args, *input.ContactName)
	}

	if input.ContactEmail != nil {
		argCount++
		query += fmt.Sprintf(", contact_email = $%d", argCount)
		args = append(args, *input.ContactEmail)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return errFailedUpdateClient(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errClientNotFound)
	}

	return nil
}
