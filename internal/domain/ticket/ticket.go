package ticket

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Ticket struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	OpenedBy  uuid.UUID
	Subject   string
	Body      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        uuid.UUID
	TicketID  uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

type CreateTicketInput struct {
	ProjectID *uuid.UUID
	OpenedBy  uuid.UUID
	Subject   string
	Body      string
}

type AddCommentInput struct {
	TicketID uuid.UUID
	AuthorID uuid.UUID
	Body     string
}
