package client

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID           uuid.UUID
	Name         string
	ContactName  string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateClientInput struct {
	Name         string
	ContactName  string
	ContactEmail string
}

type UpdateClientInput struct {
	Name         *string
	ContactName  *string
	ContactEmail *string
}
