package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/account"
	apperrors "agency-service/pkg/errors"
)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = "id, email, handle, password_hash, name, role, is_active, last_login_at, created_at, updated_at"

func scanAccount(row pgx.Row) (*account.Account, error) {
	a := &account.Account{}
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Handle,
		&a.PasswordHash,
		&a.Name,
		&a.Role,
		&a.IsActive,
		&a.LastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error) {
	query := `
		INSERT INTO accounts (email, handle, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.Pool.QueryRow(ctx, query,
		input.Email, input.Handle, input.PasswordHash, input.Name, input.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("account with this email or handle already exists")
		}
		return nil, errFailedCreateAccount(err)
	}

	return a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}

	return a, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	a, err := scanAccount(r.db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}

	return a, nil
}

func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE handle = $1`

	a, err := scanAccount(r.db.Pool.QueryRow(ctx, query, handle))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}

	return a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListAccounts(err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errFailedScanAccount(err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, input account.UpdateAccountInput) error {
	query := "UPDATE accounts SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.Name != nil {
		argCount++
		query += fmt.Sprintf(", name = $%d", argCount)
		args = append(args, *input.Name)
	}

	if input.Role != nil {
		argCount++
		query += fmt.Sprintf(", role = $%d", argCount)
		args = append(args, *input.Role)
	}

	if input.IsActive != nil {
		argCount++
		query += fmt.Sprintf(", is_active = $%d", argCount)
		args = append(args, *input.IsActive)
	}

	if input.PasswordHash != nil {
		argCount++
		query += fmt.Sprintf(", password_hash = $%d", argCount)
		args = append(args, *input.PasswordHash)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return errFailedUpdateAccount(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAccountNotFound)
	}

	return nil
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	query := "UPDATE accounts SET last_login_at = NOW() WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedTouchLastLogin(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAccountNotFound)
	}

	return nil
}
