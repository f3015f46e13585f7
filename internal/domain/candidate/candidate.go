package candidate

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusInvited           Status = "invited"
	StatusDocumentsUploaded Status = "documents_uploaded"
	StatusOnboarded         Status = "onboarded"
	StatusRejected          Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInvited, StatusDocumentsUploaded, StatusOnboarded, StatusRejected:
		return true
	default:
		return false
	}
}

type Candidate struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Position  string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateCandidateInput struct {
	Name     string
	Email    string
	Position string
}

type UpdateCandidateInput struct {
	Name     *string
	Position *string
	Status   *Status
}
