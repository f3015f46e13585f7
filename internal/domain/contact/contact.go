package contact

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Body      string
	Handled   bool
	CreatedAt time.Time
}

type CreateMessageInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}
