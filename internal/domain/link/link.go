package link

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	// KindOnboarding links invite a candidate to upload documents. At most
	// one is active per candidate; a successful upload completes the link.
	KindOnboarding Kind = "onboarding"
	// KindPayment links let a client register payments against a project.
	// Many may be active at once and each may carry a fixed amount.
	KindPayment Kind = "payment"
)

func (k Kind) Valid() bool {
	return k == KindOnboarding || k == KindPayment
}

type Link struct {
	ID          uuid.UUID
	Kind        Kind
	CandidateID *uuid.UUID
	ProjectID   *uuid.UUID
	Token       string
	Active      bool
	AmountCents *int64
	Completed   bool
	ExpiresAt   time.Time
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// Usable reports whether the link may be presented publicly at the given
// instant. Completed onboarding links stay technically usable; the
// one-submission-per-candidate rule is enforced at submission time.
func (l *Link) Usable(now time.Time) bool {
	return l.Active && now.Before(l.ExpiresAt)
}

type CreateLinkInput struct {
	Kind        Kind
	CandidateID *uuid.UUID
	ProjectID   *uuid.UUID
	Token       string
	AmountCents *int64
	ExpiresAt   time.Time
	CreatedBy   uuid.UUID
}
