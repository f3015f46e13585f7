package project

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Code        string
	Slug        string
	Name        string
	Category    string
	Status      string
	Description string
	UpdatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateProjectInput struct {
	ClientID    uuid.UUID
	Code        string
	Slug        string
	Name        string
	Category    string
	Status      string
	Description string
	CreatedBy   uuid.UUID
}

type UpdateProjectInput struct {
	Name        *string
	Category    *string
	Status      *string
	Description *string
	UpdatedBy   uuid.UUID
}

// Membership is the per-project grant for a staff account. The two flags
// are independent: editing a project and managing its payment links are
// separate capabilities.
type Membership struct {
	ProjectID         uuid.UUID
	AccountID         uuid.UUID
	CanEdit           bool
	CanManagePayments bool
	GrantedBy         uuid.UUID
	GrantedAt         time.Time
}

type GrantMembershipInput struct {
	ProjectID         uuid.UUID
	AccountID         uuid.UUID
	CanEdit           bool
	CanManagePayments bool
	GrantedBy         uuid.UUID
}
