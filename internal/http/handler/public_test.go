package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-service/internal/authz"
	"agency-service/internal/domain/account"
	"agency-service/internal/domain/candidate"
	"agency-service/internal/domain/client"
	"agency-service/internal/domain/link"
	"agency-service/internal/domain/project"
	"agency-service/internal/domain/submission"
	"agency-service/internal/links"
	"agency-service/internal/submissions"
	apperrors "agency-service/pkg/errors"
)

// In-memory repositories backing the public link flow end to end.

type memLinkRepo struct {
	rows map[uuid.UUID]*link.Link
}

func (m *memLinkRepo) Create(_ context.Context, input link.CreateLinkInput) (*link.Link, error) {
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
	}
	m.rows[l.ID] = l
	return l, nil
}

func (m *memLinkRepo) CreateSuperseding(ctx context.Context, input link.CreateLinkInput) (*link.Link, error) {
	for _, l := range m.rows {
		if l.Kind == input.Kind && l.Active && l.CandidateID != nil && input.CandidateID != nil && *l.CandidateID == *input.CandidateID {
			l.Active = false
		}
	}
	return m.Create(ctx, input)
}

func (m *memLinkRepo) GetByID(_ context.Context, id uuid.UUID) (*link.Link, error) {
	l, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound("link not found")
	}
	return l, nil
}

func (m *memLinkRepo) GetByToken(_ context.Context, token string) (*link.Link, error) {
	for _, l := range m.rows {
		if l.Token == token {
			return l, nil
		}
	}
	return nil, apperrors.NotFound("link not found")
}

func (m *memLinkRepo) ListByCandidate(_ context.Context, _ uuid.UUID) ([]*link.Link, error) {
	return nil, nil
}
func (m *memLinkRepo) ListByProject(_ context.Context, _ uuid.UUID) ([]*link.Link, error) {
	return nil, nil
}

func (m *memLinkRepo) SetActive(_ context.Context, id uuid.UUID, active bool) (*link.Link, error) {
	l, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound("link not found")
	}
	l.Active = active
	return l, nil
}

func (m *memLinkRepo) Extend(_ context.Context, id uuid.UUID, expiresAt time.Time) (*link.Link, error) {
	l, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound("link not found")
	}
	l.Active = true
	l.ExpiresAt = expiresAt
	return l, nil
}

type memCandidateRepo struct {
	rows map[uuid.UUID]*candidate.Candidate
}

func (m *memCandidateRepo) Create(_ context.Context, input candidate.CreateCandidateInput) (*candidate.Candidate, error) {
	c := &candidate.Candidate{ID: uuid.New(), Name: input.Name, Email: input.Email, Position: input.Position, Status: candidate.StatusInvited}
	m.rows[c.ID] = c
	return c, nil
}

func (m *memCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (*candidate.Candidate, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound("candidate not found")
	}
	return c, nil
}

func (m *memCandidateRepo) List(_ context.Context) ([]*candidate.Candidate, error) { return nil, nil }
func (m *memCandidateRepo) Update(_ context.Context, _ uuid.UUID, _ candidate.UpdateCandidateInput) error {
	return nil
}

type memProjectRepo struct {
	rows map[uuid.UUID]*project.Project
}

func (m *memProjectRepo) Create(_ context.Context, _ project.CreateProjectInput) (*project.Project, error) {
	return nil, nil
}

func (m *memProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound("project not found")
	}
	return p, nil
}

func (m *memProjectRepo) List(_ context.Context) ([]*project.Project, error) { return nil, nil }
func (m *memProjectRepo) ListByMember(_ context.Context, _ uuid.UUID) ([]*project.Project, error) {
	return nil, nil
}
func (m *memProjectRepo) Update(_ context.Context, _ uuid.UUID, _ project.UpdateProjectInput) error {
	return nil
}

type memClientRepo struct {
	rows      map[uuid.UUID]*client.Client
	visibleTo map[uuid.UUID]uuid.UUID
}

func (m *memClientRepo) Create(_ context.Context, _ client.CreateClientInput) (*client.Client, error) {
	return nil, nil
}

func (m *memClientRepo) GetByID(_ context.Context, id uuid.UUID) (*client.Client, error) {
	cl, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound("client not found")
	}
	return cl, nil
}

func (m *memClientRepo) List(_ context.Context) ([]*client.Client, error) { return nil, nil }
func (m *memClientRepo) ListByMember(_ context.Context, _ uuid.UUID) ([]*client.Client, error) {
	return nil, nil
}

// visibleTo emulates the membership join behind VisibleToMember.
func (m *memClientRepo) VisibleToMember(_ context.Context, clientID, accountID uuid.UUID) (bool, error) {
	return m.visibleTo[clientID] == accountID, nil
}
func (m *memClientRepo) Update(_ context.Context, _ uuid.UUID, _ client.UpdateClientInput) error {
	return nil
}

type memMembershipReader struct{}

func (memMembershipReader) Get(_ context.Context, _, _ uuid.UUID) (*project.Membership, error) {
	return nil, apperrors.NotFound("membership not found")
}

type memSubmissionRepo struct {
	rows       []*submission.Submission
	linkRepo   *memLinkRepo
	candidates *memCandidateRepo
}

func (m *memSubmissionRepo) RecordOnboarding(_ context.Context, input submission.RecordSubmissionInput) (*submission.Submission, error) {
	for _, s := range m.rows {
		if s.Kind == link.KindOnboarding && s.CandidateID != nil && *s.CandidateID == *input.CandidateID {
			return nil, apperrors.AlreadySubmitted()
		}
	}
	s := &submission.Submission{
		ID:          uuid.New(),
		Kind:        input.Kind,
		LinkID:      input.LinkID,
		CandidateID: input.CandidateID,
		FileKey:     input.FileKey,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		CreatedAt:   time.Now(),
	}
	m.rows = append(m.rows, s)
	m.linkRepo.rows[input.LinkID].Completed = true
	m.candidates.rows[*input.CandidateID].Status = candidate.StatusDocumentsUploaded
	return s, nil
}

func (m *memSubmissionRepo) RecordPayment(_ context.Context, input submission.RecordSubmissionInput) (*submission.Submission, error) {
	s := &submission.Submission{
		ID:         uuid.New(),
		Kind:       input.Kind,
		LinkID:     input.LinkID,
		ProjectID:  input.ProjectID,
		FileKey:    input.FileKey,
		FileName:   input.FileName,
		PayerName:  input.PayerName,
		PayerEmail: input.PayerEmail,
		Reference:  input.Reference,
		CreatedAt:  time.Now(),
	}
	m.rows = append(m.rows, s)
	return s, nil
}

func (m *memSubmissionRepo) GetByCandidate(_ context.Context, candidateID uuid.UUID) (*submission.Submission, error) {
	for _, s := range m.rows {
		if s.Kind == link.KindOnboarding && s.CandidateID != nil && *s.CandidateID == candidateID {
			return s, nil
		}
	}
	return nil, apperrors.NotFound("submission not found")
}

func (m *memSubmissionRepo) ListByProject(_ context.Context, _ uuid.UUID) ([]*submission.Submission, error) {
	return m.rows, nil
}

type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key, _ string, body []byte) error {
	m.objects[key] = body
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

type publicFixture struct {
	handler    *PublicHandler
	echo       *echo.Echo
	linkSvc    *links.Service
	candidates *memCandidateRepo
	projects   *memProjectRepo
	clients    *memClientRepo
	linkRepo   *memLinkRepo
	store      *memStore
	subs       *memSubmissionRepo
}

func newPublicFixture(t *testing.T) *publicFixture {
	t.Helper()

	linkRepo := &memLinkRepo{rows: map[uuid.UUID]*link.Link{}}
	candidates := &memCandidateRepo{rows: map[uuid.UUID]*candidate.Candidate{}}
	projects := &memProjectRepo{rows: map[uuid.UUID]*project.Project{}}
	clients := &memClientRepo{rows: map[uuid.UUID]*client.Client{}, visibleTo: map[uuid.UUID]uuid.UUID{}}
	subs := &memSubmissionRepo{linkRepo: linkRepo, candidates: candidates}
	store := &memStore{objects: map[string][]byte{}}

	linkSvc := links.NewService(linkRepo, candidates, projects, clients,
		authz.New(memMembershipReader{}), 48*time.Hour, 14*24*time.Hour)

	subSvc := submissions.NewService(linkSvc, subs, store, submissions.Policy{
		AcceptedTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		MaxSizeBytes:  1 << 20,
	}, nil)

	e := echo.New()

	return &publicFixture{
		handler:    NewPublicHandler(linkSvc, subSvc, 1<<20),
		echo:       e,
		linkSvc:    linkSvc,
		candidates: candidates,
		projects:   projects,
		clients:    clients,
		linkRepo:   linkRepo,
		store:      store,
		subs:       subs,
	}
}

var testAdmin = authz.Actor{AccountID: uuid.New(), Role: account.RoleAdmin}

func (fx *publicFixture) issueOnboarding(t *testing.T) (*candidate.Candidate, *link.Link) {
	t.Helper()

	cand, err := fx.candidates.Create(context.Background(), candidate.CreateCandidateInput{
		Name: "Riley Doe", Email: "riley@example.com", Position: "Designer",
	})
	require.NoError(t, err)

	issued, err := fx.linkSvc.IssueOnboarding(context.Background(), cand.ID, testAdmin)
	require.NoError(t, err)
	return cand, issued
}

func (fx *publicFixture) resolve(t *testing.T, token string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/public/links/"+token, nil)
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues(token)
	return rec, fx.handler.Resolve(c)
}

func multipartBody(t *testing.T, fileName, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+formFieldFile+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (fx *publicFixture) submit(t *testing.T, token, fileName, contentType string, data []byte, fields map[string]string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	body, bodyType := multipartBody(t, fileName, contentType, data, fields)
	req := httptest.NewRequest(http.MethodPost, "/public/links/"+token+"/submissions", body)
	req.Header.Set(echo.HeaderContentType, bodyType)
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues(token)
	return rec, fx.handler.Submit(c)
}

func TestResolveOnboardingLink(t *testing.T) {
	fx := newPublicFixture(t)
	_, issued := fx.issueOnboarding(t)

	rec, err := fx.resolve(t, issued.Token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResolvedLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, link.KindOnboarding, resp.Kind)
	require.NotNil(t, resp.Candidate)
	assert.Equal(t, "Riley Doe", resp.Candidate.Name)
	assert.Equal(t, "Designer", resp.Candidate.Position)
	assert.Nil(t, resp.Project)
}

func TestResolveUnknownTokenIsNotFound(t *testing.T) {
	fx := newPublicFixture(t)

	_, err := fx.resolve(t, "deadbeef")
	assert.ErrorIs(t, err, apperrors.ErrLinkUnusable)
}

func TestResolveDeactivatedTokenMatchesUnknown(t *testing.T) {
	fx := newPublicFixture(t)
	_, issued := fx.issueOnboarding(t)

	_, err := fx.linkSvc.Toggle(context.Background(), issued.ID, false, testAdmin)
	require.NoError(t, err)

	_, resolveErr := fx.resolve(t, issued.Token)
	assert.ErrorIs(t, resolveErr, apperrors.ErrLinkUnusable)
}

func TestSubmitOnboardingDocument(t *testing.T) {
	fx := newPublicFixture(t)
	cand, issued := fx.issueOnboarding(t)

	rec, err := fx.submit(t, issued.Token, "cv.pdf", "application/pdf", []byte("%PDF-1.7"), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, link.KindOnboarding, resp.Kind)
	assert.Equal(t, "cv.pdf", resp.FileName)

	assert.Equal(t, candidate.StatusDocumentsUploaded, fx.candidates.rows[cand.ID].Status)
	assert.True(t, fx.linkRepo.rows[issued.ID].Completed)
	assert.Len(t, fx.store.objects, 1)
}

func TestSubmitSecondTimeConflicts(t *testing.T) {
	fx := newPublicFixture(t)
	_, issued := fx.issueOnboarding(t)

	_, err := fx.submit(t, issued.Token, "cv.pdf", "application/pdf", []byte("%PDF-1.7"), nil)
	require.NoError(t, err)

	_, err = fx.submit(t, issued.Token, "cv.pdf", "application/pdf", []byte("%PDF-1.7"), nil)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubmitted)
	assert.Len(t, fx.store.objects, 1, "the rejected duplicate must not leave an object behind")
}

func TestSubmitRejectsUnsupportedType(t *testing.T) {
	fx := newPublicFixture(t)
	_, issued := fx.issueOnboarding(t)

	_, err := fx.submit(t, issued.Token, "cv.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("zip"), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArtifact)
	assert.Empty(t, fx.store.objects)
}

func TestSubmitNormalizesJpgExtension(t *testing.T) {
	fx := newPublicFixture(t)
	_, issued := fx.issueOnboarding(t)

	// No declared part type: the handler falls back to the extension and
	// .jpg maps to image/jpeg.
	rec, err := fx.submit(t, issued.Token, "passport.JPG", "", []byte("jpegdata"), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSubmitPaymentWithPayerDetails(t *testing.T) {
	fx := newPublicFixture(t)

	projectID := uuid.New()
	clientID := uuid.New()
	fx.projects.rows[projectID] = &project.Project{ID: projectID, ClientID: clientID, Name: "Site Redesign"}
	fx.clients.rows[clientID] = &client.Client{ID: clientID, Name: "Acme"}

	issued, err := fx.linkSvc.IssuePayment(context.Background(), projectID, nil, testAdmin)
	require.NoError(t, err)

	fields := map[string]string{
		formFieldPayerName:  "Jo Payer",
		formFieldPayerEmail: "jo@example.com",
		formFieldReference:  "INV-42",
	}

	rec, err := fx.submit(t, issued.Token, "receipt.png", "image/png", []byte("png"), fields)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, fx.subs.rows, 1)
	recorded := fx.subs.rows[0]
	require.NotNil(t, recorded.PayerName)
	assert.Equal(t, "Jo Payer", *recorded.PayerName)
	require.NotNil(t, recorded.Reference)
	assert.Equal(t, "INV-42", *recorded.Reference)

	// Payment links stay open for further submissions.
	_, err = fx.submit(t, issued.Token, "receipt2.png", "image/png", []byte("png"), nil)
	require.NoError(t, err)
	assert.Len(t, fx.subs.rows, 2)
}

func TestSubmitWithoutFileIsBadRequest(t *testing.T) {
	fx := newPublicFixture(t)
	_, issued := fx.issueOnboarding(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("unrelated", "x"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/public/links/"+issued.Token+"/submissions", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	c.SetParamNames(paramToken)
	c.SetParamValues(issued.Token)

	require.NoError(t, fx.handler.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
