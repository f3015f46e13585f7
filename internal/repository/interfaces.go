package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agency-service/internal/domain/account"
	"agency-service/internal/domain/candidate"
	"agency-service/internal/domain/client"
	"agency-service/internal/domain/contact"
	"agency-service/internal/domain/link"
	"agency-service/internal/domain/project"
	"agency-service/internal/domain/submission"
	"agency-service/internal/domain/ticket"
)

// Repository interfaces consumed by the auth, authz, links and submission
// packages and by the HTTP handlers. Concrete implementations live in
// repository/postgres.

type AccountRepository interface {
	Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	GetByHandle(ctx context.Context, handle string) (*account.Account, error)
	List(ctx context.Context) ([]*account.Account, error)
	Update(ctx context.Context, id uuid.UUID, input account.UpdateAccountInput) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type ClientRepository interface {
	Create(ctx context.Context, input client.CreateClientInput) (*client.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error)
	List(ctx context.Context) ([]*client.Client, error)
	ListByMember(ctx context.Context, accountID uuid.UUID) ([]*client.Client, error)
	// VisibleToMember reports whether the account holds a membership on
	// any of the client's projects.
	VisibleToMember(ctx context.Context, clientID, accountID uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, input client.UpdateClientInput) error
}

type ProjectRepository interface {
	Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	List(ctx context.Context) ([]*project.Project, error)
	ListByMember(ctx context.Context, accountID uuid.UUID) ([]*project.Project, error)
	Update(ctx context.Context, id uuid.UUID, input project.UpdateProjectInput) error
}

type MembershipRepository interface {
	// Grant upserts on (project_id, account_id): a second grant replaces
	// the existing row's flags rather than adding a row.
	Grant(ctx context.Context, input project.GrantMembershipInput) (*project.Membership, error)
	Get(ctx context.Context, projectID, accountID uuid.UUID) (*project.Membership, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*project.Membership, error)
	Revoke(ctx context.Context, projectID, accountID uuid.UUID) error
}

type CandidateRepository interface {
	Create(ctx context.Context, input candidate.CreateCandidateInput) (*candidate.Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*candidate.Candidate, error)
	List(ctx context.Context) ([]*candidate.Candidate, error)
	Update(ctx context.Context, id uuid.UUID, input candidate.UpdateCandidateInput) error
}

type LinkRepository interface {
	// CreateSuperseding deactivates every active link of the same kind for
	// the owning resource and inserts the new link in one transaction.
	CreateSuperseding(ctx context.Context, input link.CreateLinkInput) (*link.Link, error)
	Create(ctx context.Context, input link.CreateLinkInput) (*link.Link, error)
	GetByID(ctx context.Context, id uuid.UUID) (*link.Link, error)
	GetByToken(ctx context.Context, token string) (*link.Link, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*link.Link, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*link.Link, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*link.Link, error)
	Extend(ctx context.Context, id uuid.UUID, expiresAt time.Time) (*link.Link, error)
}

type SubmissionRepository interface {
	// RecordOnboarding inserts the submission, completes the link and moves
	// the candidate to documents_uploaded in one transaction.
	RecordOnboarding(ctx context.Context, input submission.RecordSubmissionInput) (*submission.Submission, error)
	RecordPayment(ctx context.Context, input submission.RecordSubmissionInput) (*submission.Submission, error)
	GetByCandidate(ctx context.Context, candidateID uuid.UUID) (*submission.Submission, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*submission.Submission, error)
}

type TicketRepository interface {
	Create(ctx context.Context, input ticket.CreateTicketInput) (*ticket.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error)
	List(ctx context.Context) ([]*ticket.Ticket, error)
	ListByOpener(ctx context.Context, accountID uuid.UUID) ([]*ticket.Ticket, error)
	SetStatus(ctx context.Context, id uuid.UUID, status ticket.Status) error
	AddComment(ctx context.Context, input ticket.AddCommentInput) (*ticket.Comment, error)
	ListComments(ctx context.Context, ticketID uuid.UUID) ([]*ticket.Comment, error)
}

type ContactRepository interface {
	Create(ctx context.Context, input contact.CreateMessageInput) (*contact.Message, error)
	List(ctx context.Context, unhandledOnly bool) ([]*contact.Message, error)
	MarkHandled(ctx context.Context, id uuid.UUID) error
}
