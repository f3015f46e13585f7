package links

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"agency-service/internal/authz"
	"agency-service/internal/domain/candidate"
	"agency-service/internal/domain/client"
	"agency-service/internal/domain/link"
	"agency-service/internal/domain/project"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
)

// Resolved is the public-facing context a valid token unlocks: the owning
// candidate for onboarding links, the owning project and client for
// payment links. It is all the information a sessionless caller may see.
type Resolved struct {
	Link      *link.Link
	Candidate *candidate.Candidate
	Project   *project.Project
	Client    *client.Client
}

type Service struct {
	links      repository.LinkRepository
	candidates repository.CandidateRepository
	projects   repository.ProjectRepository
	clients    repository.ClientRepository
	authorizer *authz.Authorizer

	onboardingTTL time.Duration
	paymentTTL    time.Duration

	now func() time.Time
}

func NewService(
	links repository.LinkRepository,
	candidates repository.CandidateRepository,
	projects repository.ProjectRepository,
	clients repository.ClientRepository,
	authorizer *authz.Authorizer,
	onboardingTTL, paymentTTL time.Duration,
) *Service {
	return &Service{
		links:         links,
		candidates:    candidates,
		projects:      projects,
		clients:       clients,
		authorizer:    authorizer,
		onboardingTTL: onboardingTTL,
		paymentTTL:    paymentTTL,
		now:           time.Now,
	}
}

// IssueOnboarding mints a fresh onboarding link for the candidate and
// supersedes every previously active one, keeping at most one usable
// onboarding link per candidate.
func (s *Service) IssueOnboarding(ctx context.Context, candidateID uuid.UUID, actor authz.Actor) (*link.Link, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators may issue onboarding links")
	}

	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	return s.links.CreateSuperseding(ctx, link.CreateLinkInput{
		Kind:        link.KindOnboarding,
		CandidateID: &candidateID,
		Token:       token,
		ExpiresAt:   s.now().Add(s.onboardingTTL),
		CreatedBy:   actor.AccountID,
	})
}

// IssuePayment mints a payment link for the project. Unlike onboarding
// links there is no supersession: a project may hold many simultaneously
// active links, each with its own optional fixed amount.
func (s *Service) IssuePayment(ctx context.Context, projectID uuid.UUID, amountCents *int64, actor authz.Actor) (*link.Link, error) {
	if err := s.authorizer.RequireManagePayments(ctx, actor, projectID); err != nil {
		return nil, err
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	return s.links.Create(ctx, link.CreateLinkInput{
		Kind:        link.KindPayment,
		ProjectID:   &projectID,
		Token:       token,
		AmountCents: amountCents,
		ExpiresAt:   s.now().Add(s.paymentTTL),
		CreatedBy:   actor.AccountID,
	})
}

// Validate resolves a presented token. A token that does not exist, is
// deactivated or has expired produces the same conflated error so the
// public surface never reveals which check failed.
func (s *Service) Validate(ctx context.Context, token string) (*Resolved, error) {
	l, err := s.links.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.LinkUnusable()
		}
		return nil, err
	}

	if !l.Usable(s.now()) {
		return nil, apperrors.LinkUnusable()
	}

	resolved := &Resolved{Link: l}

	switch l.Kind {
	case link.KindOnboarding:
		cand, err := s.candidates.GetByID(ctx, *l.CandidateID)
		if err != nil {
			return nil, err
		}
		resolved.Candidate = cand
	case link.KindPayment:
		proj, err := s.projects.GetByID(ctx, *l.ProjectID)
		if err != nil {
			return nil, err
		}
		cl, err := s.clients.GetByID(ctx, proj.ClientID)
		if err != nil {
			return nil, err
		}
		resolved.Project = proj
		resolved.Client = cl
	}

	return resolved, nil
}

// Toggle flips the active flag without touching expiry.
func (s *Service) Toggle(ctx context.Context, linkID uuid.UUID, active bool, actor authz.Actor) (*link.Link, error) {
	l, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManage(ctx, l, actor); err != nil {
		return nil, err
	}

	return s.links.SetActive(ctx, linkID, active)
}

// Regenerate re-activates the link and pushes its expiry forward by the
// kind's configured window. The token string itself is not rotated; the
// link keeps its published URL. Regenerating an onboarding link also
// supersedes any other active link for the candidate.
func (s *Service) Regenerate(ctx context.Context, linkID uuid.UUID, actor authz.Actor) (*link.Link, error) {
	l, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManage(ctx, l, actor); err != nil {
		return nil, err
	}

	ttl := s.paymentTTL
	if l.Kind == link.KindOnboarding {
		ttl = s.onboardingTTL
		if err := s.supersedeSiblings(ctx, l); err != nil {
			return nil, err
		}
	}

	return s.links.Extend(ctx, linkID, s.now().Add(ttl))
}

func (s *Service) supersedeSiblings(ctx context.Context, l *link.Link) error {
	siblings, err := s.links.ListByCandidate(ctx, *l.CandidateID)
	if err != nil {
		return err
	}

	for _, sibling := range siblings {
		if sibling.ID == l.ID || !sibling.Active {
			continue
		}
		if _, err := s.links.SetActive(ctx, sibling.ID, false); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) ListByCandidate(ctx context.Context, candidateID uuid.UUID, actor authz.Actor) ([]*link.Link, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators may list onboarding links")
	}
	return s.links.ListByCandidate(ctx, candidateID)
}

func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID, actor authz.Actor) ([]*link.Link, error) {
	if err := s.authorizer.RequireManagePayments(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.links.ListByProject(ctx, projectID)
}

// requireManage gates mutation of an existing link: administrators for
// any link, payment managers for payment links on their project.
func (s *Service) requireManage(ctx context.Context, l *link.Link, actor authz.Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	if l.Kind == link.KindPayment && l.ProjectID != nil {
		return s.authorizer.RequireManagePayments(ctx, actor, *l.ProjectID)
	}

	return apperrors.Forbidden("only administrators may manage onboarding links")
}
