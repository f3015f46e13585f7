package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"agency-service/internal/domain/project"
	apperrors "agency-service/pkg/errors"
)

type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = "id, client_id, code, slug, name, category, status, description, updated_by, created_at, updated_at"

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.Code,
		&p.Slug,
		&p.Name,
		&p.Category,
		&p.Status,
		&p.Description,
		&p.UpdatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error) {
	query := `
		INSERT INTO projects (client_id, code, slug, name, category, status, description, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + projectColumns

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query,
		input.ClientID, input.Code, input.Slug, input.Name,
		input.Category, input.Status, input.Description, input.CreatedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("project with this code already exists")
		}
		return nil, errFailedCreateProject(err)
	}

	return p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedGetProject(err)
	}

	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	return r.queryProjects(ctx, query)
}

// ListByMember returns projects the account holds a membership row on,
// regardless of which capability flags the row carries.
func (r *ProjectRepository) ListByMember(ctx context.Context, accountID uuid.UUID) ([]*project.Project, error) {
	query := `
		SELECT p.id, p.client_id, p.code, p.slug, p.name, p.category, p.status, p.description, p.updated_by, p.created_at, p.updated_at
		FROM projects p
		INNER JOIN project_memberships pm ON pm.project_id = p.id
		WHERE pm.account_id = $1
		ORDER BY p.created_at DESC
	`

	return r.queryProjects(ctx, query, accountID)
}

func (r *ProjectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*project.Project, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListProjects(err)
	}
	defer rows.Close()

	projects := make([]*project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errFailedScanProject(err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, input project.UpdateProjectInput) error {
	query := "UPDATE projects SET updated_at = NOW(), updated_by = $2"
	args := []interface{}{id, input.UpdatedBy}
	argCount := 2

	if input.Name != nil {
		argCount++
		query += fmt.Sprintf(", name = $%d", argCount)
		args = append(args, *input.Name)
	}

	if input.Category != nil {
		argCount++
		query += fmt.Sprintf(", category = $%d", argCount)
		args = append(args, *input.Category)
	}

	if input.Status != nil {
		argCount++
		query += fmt.Sprintf(", status = $%d", argCount)
		args = append(args, *input.Status)
	}

	if input.Description != nil {
		argCount++
		query += fmt.Sprintf(", description = $%d", argCount)
		args = append(args, *input.Description)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return errFailedUpdateProject(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}
