package links

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-service/internal/authz"
	"agency-service/internal/domain/account"
	"agency-service/internal/domain/candidate"
	"agency-service/internal/domain/client"
	"agency-service/internal/domain/link"
	"agency-service/internal/domain/project"
	apperrors "agency-service/pkg/errors"
)

// In-memory fakes emulating the postgres repositories, including the
// supersession transaction and unique-token semantics.

type fakeLinkRepo struct {
	rows map[uuid.UUID]*link.Link

	// extendErr stands in for the partial unique index rejecting the
	// reactivation when a regenerate races a fresh issue.
	extendErr error
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{rows: map[uuid.UUID]*link.Link{}}
}

func (f *fakeLinkRepo) insert(input link.CreateLinkInput) (*link.Link, error) {
	for _, l := range f.rows {
		if l.Token == input.Token {
			return nil, apperrors.Conflict("link with this token already exists")
		}
	}
	l := &link.Link{
		ID:          uuid.New(),
		Kind:        input.Kind,
		CandidateID: input.CandidateID,
		ProjectID:   input.ProjectID,
		Token:       input.Token,
		Active:      true,
		AmountCents: input.AmountCents,
		ExpiresAt:   input.ExpiresAt,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   time.Now(),
	}
	f.rows[l.ID] = l
	return l, nil
}

func (f *fakeLinkRepo) Create(_ context.Context, input link.CreateLinkInput) (*link.Link, error) {
	return f.insert(input)
}

func (f *fakeLinkRepo) CreateSuperseding(_ context.Context, input link.CreateLinkInput) (*link.Link, error) {
	for _, l := range f.rows {
		if l.Kind != input.Kind || !l.Active {
			continue
		}
		sameCandidate := input.CandidateID != nil && l.CandidateID != nil && *l.CandidateID == *input.CandidateID
		sameProject := input.ProjectID != nil && l.ProjectID != nil && *l.ProjectID == *input.ProjectID
		if sameCandidate || sameProject {
			l.Active = false
		}
	}
	return f.insert(input)
}

func (f *fakeLinkRepo) GetByID(_ context.Context, id uuid.UUID) (*link.Link, error) {
	l, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("link not found")
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLinkRepo) GetByToken(_ context.Context, token string) (*link.Link, error) {
	for _, l := range f.rows {
		if l.Token == token {
			copied := *l
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("link not found")
}

func (f *fakeLinkRepo) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]*link.Link, error) {
	var out []*link.Link
	for _, l := range f.rows {
		if l.CandidateID != nil && *l.CandidateID == candidateID {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]*link.Link, error) {
	var out []*link.Link
	for _, l := range f.rows {
		if l.ProjectID != nil && *l.ProjectID == projectID {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) SetActive(_ context.Context, id uuid.UUID, active bool) (*link.Link, error) {
	l, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("link not found")
	}
	l.Active = active
	copied := *l
	return &copied, nil
}

func (f *fakeLinkRepo) Extend(_ context.Context, id uuid.UUID, expiresAt time.Time) (*link.Link, error) {
	if f.extendErr != nil {
		return nil, f.extendErr
	}
	l, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("link not found")
	}
	l.Active = true
	l.ExpiresAt = expiresAt
	copied := *l
	return &copied, nil
}

func (f *fakeLinkRepo) activeCountForCandidate(candidateID uuid.UUID) int {
	count := 0
	for _, l := range f.rows {
		if l.Active && l.CandidateID != nil && *l.CandidateID == candidateID {
			count++
		}
	}
	return count
}

type fakeCandidateRepo struct {
	rows map[uuid.UUID]*candidate.Candidate
}

func (f *fakeCandidateRepo) Create(_ context.Context, input candidate.CreateCandidateInput) (*candidate.Candidate, error) {
	c := &candidate.Candidate{ID: uuid.New(), Name: input.Name, Email: input.Email, Position: input.Position, Status: candidate.StatusInvited}
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (*candidate.Candidate, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("candidate not found")
	}
	return c, nil
}

func (f *fakeCandidateRepo) List(_ context.Context) ([]*candidate.Candidate, error) { return nil, nil }

func (f *fakeCandidateRepo) Update(_ context.Context, id uuid.UUID, input candidate.UpdateCandidateInput) error {
	c, ok := f.rows[id]
	if !ok {
		return apperrors.NotFound("candidate not found")
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
	return nil
}

type fakeProjectRepo struct {
	rows map[uuid.UUID]*project.Project
}

func (f *fakeProjectRepo) Create(_ context.Context, _ project.CreateProjectInput) (*project.Project, error) {
	return nil, nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("project not found")
	}
	return p, nil
}

func (f *fakeProjectRepo) List(_ context.Context) ([]*project.Project, error) { return nil, nil }
func (f *fakeProjectRepo) ListByMember(_ context.Context, _ uuid.UUID) ([]*project.Project, error) {
	return nil, nil
}
func (f *fakeProjectRepo) Update(_ context.Context, _ uuid.UUID, _ project.UpdateProjectInput) error {
	return nil
}

type fakeClientRepo struct {
	rows map[uuid.UUID]*client.Client
}

func (f *fakeClientRepo) Create(_ context.Context, _ client.CreateClientInput) (*client.Client, error) {
	return nil, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id uuid.UUID) (*client.Client, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("client not found")
	}
	return c, nil
}

func (f *fakeClientRepo) List(_ context.Context) ([]*client.Client, error) { return nil, nil }
func (f *fakeClientRepo) ListByMember(_ context.Context, _ uuid.UUID) ([]*client.Client, error) {
	return nil, nil
}
func (f *fakeClientRepo) VisibleToMember(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeClientRepo) Update(_ context.Context, _ uuid.UUID, _ client.UpdateClientInput) error {
	return nil
}

type fakeMembershipReader struct {
	rows map[string]*project.Membership
}

func grantKey(projectID, accountID uuid.UUID) string {
	return projectID.String() + "/" + accountID.String()
}

func (f *fakeMembershipReader) Get(_ context.Context, projectID, accountID uuid.UUID) (*project.Membership, error) {
	m, ok := f.rows[grantKey(projectID, accountID)]
	if !ok {
		return nil, apperrors.NotFound("membership not found")
	}
	return m, nil
}

type fixture struct {
	svc         *Service
	links       *fakeLinkRepo
	candidates  *fakeCandidateRepo
	projects    *fakeProjectRepo
	clients     *fakeClientRepo
	memberships *fakeMembershipReader
	clock       *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	linkRepo := newFakeLinkRepo()
	candRepo := &fakeCandidateRepo{rows: map[uuid.UUID]*candidate.Candidate{}}
	projRepo := &fakeProjectRepo{rows: map[uuid.UUID]*project.Project{}}
	clientRepo := &fakeClientRepo{rows: map[uuid.UUID]*client.Client{}}
	memberships := &fakeMembershipReader{rows: map[string]*project.Membership{}}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(linkRepo, candRepo, projRepo, clientRepo, authz.New(memberships), 48*time.Hour, 14*24*time.Hour)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:         svc,
		links:       linkRepo,
		candidates:  candRepo,
		projects:    projRepo,
		clients:     clientRepo,
		memberships: memberships,
		clock:       &now,
	}
}

func (fx *fixture) advance(d time.Duration) {
	*fx.clock = fx.clock.Add(d)
}

var adminActor = authz.Actor{AccountID: uuid.New(), Role: account.RoleAdmin}

func TestIssueOnboardingSupersedesPriorLinks(t *testing.T) {
	fx := newFixture(t)
	cand, err := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})
	require.NoError(t, err)

	first, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)
	assert.True(t, first.Active)

	second, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)
	assert.True(t, second.Active)
	assert.NotEqual(t, first.Token, second.Token)

	assert.Equal(t, 1, fx.links.activeCountForCandidate(cand.ID))

	stale, err := fx.links.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, stale.Active)
}

func TestIssueOnboardingRequiresAdmin(t *testing.T) {
	fx := newFixture(t)
	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})

	staff := authz.Actor{AccountID: uuid.New(), Role: account.RoleStaff}
	_, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, staff)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestIssuePaymentAllowsManyActiveLinks(t *testing.T) {
	fx := newFixture(t)
	projectID := uuid.New()
	clientID := uuid.New()
	fx.projects.rows[projectID] = &project.Project{ID: projectID, ClientID: clientID, Name: "Site"}
	fx.clients.rows[clientID] = &client.Client{ID: clientID, Name: "Acme"}

	amount := int64(25000)
	first, err := fx.svc.IssuePayment(context.Background(), projectID, &amount, adminActor)
	require.NoError(t, err)

	second, err := fx.svc.IssuePayment(context.Background(), projectID, nil, adminActor)
	require.NoError(t, err)

	assert.True(t, first.Active)
	refreshed, err := fx.links.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Active, "issuing a second payment link must not supersede the first")
	assert.True(t, second.Active)
	require.NotNil(t, first.AmountCents)
	assert.Equal(t, amount, *first.AmountCents)
	assert.Nil(t, second.AmountCents)
}

func TestIssuePaymentHonorsMembershipFlag(t *testing.T) {
	fx := newFixture(t)
	projectID := uuid.New()
	clientID := uuid.New()
	fx.projects.rows[projectID] = &project.Project{ID: projectID, ClientID: clientID}
	fx.clients.rows[clientID] = &client.Client{ID: clientID}

	staff := authz.Actor{AccountID: uuid.New(), Role: account.RoleStaff}

	_, err := fx.svc.IssuePayment(context.Background(), projectID, nil, staff)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	fx.memberships.rows[grantKey(projectID, staff.AccountID)] = &project.Membership{
		ProjectID:         projectID,
		AccountID:         staff.AccountID,
		CanManagePayments: true,
	}

	_, err = fx.svc.IssuePayment(context.Background(), projectID, nil, staff)
	assert.NoError(t, err)
}

func TestValidateReturnsCandidateContext(t *testing.T) {
	fx := newFixture(t)
	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com", Position: "Designer"})

	issued, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)

	resolved, err := fx.svc.Validate(context.Background(), issued.Token)
	require.NoError(t, err)
	require.NotNil(t, resolved.Candidate)
	assert.Equal(t, cand.ID, resolved.Candidate.ID)
	assert.Nil(t, resolved.Project)
}

func TestValidateConflatesAllFailureModes(t *testing.T) {
	fx := newFixture(t)
	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})

	issued, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)

	// Unknown token.
	_, err = fx.svc.Validate(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, apperrors.ErrLinkUnusable)

	// Deactivated link.
	_, err = fx.links.SetActive(context.Background(), issued.ID, false)
	require.NoError(t, err)
	_, err = fx.svc.Validate(context.Background(), issued.Token)
	assert.ErrorIs(t, err, apperrors.ErrLinkUnusable)

	// Expired link.
	_, err = fx.links.SetActive(context.Background(), issued.ID, true)
	require.NoError(t, err)
	fx.advance(49 * time.Hour)
	_, err = fx.svc.Validate(context.Background(), issued.Token)
	assert.ErrorIs(t, err, apperrors.ErrLinkUnusable)
}

func TestValidateWithinWindowThenAfter(t *testing.T) {
	fx := newFixture(t)
	fx.svc.onboardingTTL = 5 * time.Hour

	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})
	issued, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)

	_, err = fx.svc.Validate(context.Background(), issued.Token)
	require.NoError(t, err)

	fx.advance(6 * time.Hour)

	_, err = fx.svc.Validate(context.Background(), issued.Token)
	assert.ErrorIs(t, err, apperrors.ErrLinkUnusable)
}

func TestToggleDoesNotAlterExpiry(t *testing.T) {
	fx := newFixture(t)
	projectID := uuid.New()
	clientID := uuid.New()
	fx.projects.rows[projectID] = &project.Project{ID: projectID, ClientID: clientID}
	fx.clients.rows[clientID] = &client.Client{ID: clientID}

	issued, err := fx.svc.IssuePayment(context.Background(), projectID, nil, adminActor)
	require.NoError(t, err)

	toggled, err := fx.svc.Toggle(context.Background(), issued.ID, false, adminActor)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
	assert.Equal(t, issued.ExpiresAt, toggled.ExpiresAt)
}

func TestTogglePaymentLinkByPaymentManager(t *testing.T) {
	fx := newFixture(t)
	projectID := uuid.New()
	clientID := uuid.New()
	fx.projects.rows[projectID] = &project.Project{ID: projectID, ClientID: clientID}
	fx.clients.rows[clientID] = &client.Client{ID: clientID}

	issued, err := fx.svc.IssuePayment(context.Background(), projectID, nil, adminActor)
	require.NoError(t, err)

	staff := authz.Actor{AccountID: uuid.New(), Role: account.RoleStaff}
	_, err = fx.svc.Toggle(context.Background(), issued.ID, false, staff)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	fx.memberships.rows[grantKey(projectID, staff.AccountID)] = &project.Membership{
		ProjectID:         projectID,
		AccountID:         staff.AccountID,
		CanManagePayments: true,
	}

	toggled, err := fx.svc.Toggle(context.Background(), issued.ID, false, staff)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
}

func TestOnboardingLinkManagementIsAdminOnly(t *testing.T) {
	fx := newFixture(t)
	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})
	issued, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)

	staff := authz.Actor{AccountID: uuid.New(), Role: account.RoleStaff}
	_, err = fx.svc.Toggle(context.Background(), issued.ID, false, staff)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRegenerateExtendsAndReactivatesKeepingToken(t *testing.T) {
	fx := newFixture(t)
	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})
	issued, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)

	_, err = fx.svc.Toggle(context.Background(), issued.ID, false, adminActor)
	require.NoError(t, err)

	fx.advance(72 * time.Hour)

	regenerated, err := fx.svc.Regenerate(context.Background(), issued.ID, adminActor)
	require.NoError(t, err)
	assert.True(t, regenerated.Active)
	assert.Equal(t, issued.Token, regenerated.Token)
	assert.Equal(t, fx.clock.Add(48*time.Hour), regenerated.ExpiresAt)

	_, err = fx.svc.Validate(context.Background(), issued.Token)
	assert.NoError(t, err)
}

func TestRegenerateLostRaceSurfacesConflict(t *testing.T) {
	fx := newFixture(t)
	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})
	issued, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)

	fx.links.extendErr = apperrors.Conflict("an active onboarding link already exists for this candidate")

	_, err = fx.svc.Regenerate(context.Background(), issued.ID, adminActor)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegenerateOnboardingSupersedesSiblings(t *testing.T) {
	fx := newFixture(t)
	cand, _ := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{Name: "X", Email: "x@example.com"})

	first, err := fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)
	_, err = fx.svc.IssueOnboarding(context.Background(), cand.ID, adminActor)
	require.NoError(t, err)

	_, err = fx.svc.Regenerate(context.Background(), first.ID, adminActor)
	require.NoError(t, err)

	assert.Equal(t, 1, fx.links.activeCountForCandidate(cand.ID))
}
