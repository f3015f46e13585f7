package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-service/internal/auth"
	"agency-service/internal/authz"
	"agency-service/internal/domain/account"
	"agency-service/internal/domain/client"
	"agency-service/internal/domain/project"
	apperrors "agency-service/pkg/errors"
)

type membershipKey struct {
	projectID uuid.UUID
	accountID uuid.UUID
}

// memMembershipRepo upserts on (project, account) the way the ON CONFLICT
// clause does: a second grant replaces the row's flags in place.
type memMembershipRepo struct {
	rows map[membershipKey]*project.Membership
}

func newMemMembershipRepo() *memMembershipRepo {
	return &memMembershipRepo{rows: map[membershipKey]*project.Membership{}}
}

func (m *memMembershipRepo) Grant(_ context.Context, input project.GrantMembershipInput) (*project.Membership, error) {
	key := membershipKey{projectID: input.ProjectID, accountID: input.AccountID}
	row := &project.Membership{
		ProjectID:         input.ProjectID,
		AccountID:         input.AccountID,
		CanEdit:           input.CanEdit,
		CanManagePayments: input.CanManagePayments,
		GrantedBy:         input.GrantedBy,
	}
	m.rows[key] = row
	return row, nil
}

func (m *memMembershipRepo) Get(_ context.Context, projectID, accountID uuid.UUID) (*project.Membership, error) {
	row, ok := m.rows[membershipKey{projectID: projectID, accountID: accountID}]
	if !ok {
		return nil, apperrors.NotFound("membership not found")
	}
	return row, nil
}

func (m *memMembershipRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]*project.Membership, error) {
	out := make([]*project.Membership, 0)
	for key, row := range m.rows {
		if key.projectID == projectID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memMembershipRepo) Revoke(_ context.Context, projectID, accountID uuid.UUID) error {
	key := membershipKey{projectID: projectID, accountID: accountID}
	if _, ok := m.rows[key]; !ok {
		return apperrors.NotFound("membership not found")
	}
	delete(m.rows, key)
	return nil
}

func sessionContext(e *echo.Echo, method, body string, a *account.Account) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.ContextKeyAccountID, a.ID)
	c.Set(auth.ContextKeyRole, a.Role)
	return c, rec
}

func TestGrantTwiceReplacesFlagsInsteadOfStacking(t *testing.T) {
	e := echo.New()
	members := newMemMembershipRepo()
	accounts := newFakeAccountRepo()
	admin := seedAccount(t, accounts, "lead@agency.example", "", account.RoleAdmin)
	worker := seedAccount(t, accounts, "worker@agency.example", "worker", account.RoleStaff)

	projectID := uuid.New()
	projects := &memProjectRepo{rows: map[uuid.UUID]*project.Project{
		projectID: {ID: projectID, Name: "Site"},
	}}

	h := NewMemberHandler(members, projects, accounts)

	grant := func(body string) *httptest.ResponseRecorder {
		c, rec := sessionContext(e, http.MethodPost, body, admin)
		c.SetParamNames(paramProjectID)
		c.SetParamValues(projectID.String())
		require.NoError(t, h.Grant(c))
		return rec
	}

	rec := grant(`{"account_id":"` + worker.ID.String() + `","can_edit":true,"can_manage_payments":false}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = grant(`{"account_id":"` + worker.ID.String() + `","can_edit":false,"can_manage_payments":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rows, err := members.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].CanEdit)
	assert.True(t, rows[0].CanManagePayments)
	assert.Equal(t, admin.ID, rows[0].GrantedBy)

	// The authorizer sees the replaced flags, not an accumulation.
	authorizer := authz.New(members)
	actor := authz.Actor{AccountID: worker.ID, Role: worker.Role}

	canEdit, err := authorizer.CanEditProject(context.Background(), actor, projectID)
	require.NoError(t, err)
	assert.False(t, canEdit)

	canPay, err := authorizer.CanManagePayments(context.Background(), actor, projectID)
	require.NoError(t, err)
	assert.True(t, canPay)
}

func TestGrantUnknownProjectRejected(t *testing.T) {
	e := echo.New()
	members := newMemMembershipRepo()
	accounts := newFakeAccountRepo()
	admin := seedAccount(t, accounts, "lead@agency.example", "", account.RoleAdmin)
	worker := seedAccount(t, accounts, "worker@agency.example", "worker", account.RoleStaff)

	projects := &memProjectRepo{rows: map[uuid.UUID]*project.Project{}}
	h := NewMemberHandler(members, projects, accounts)

	c, rec := sessionContext(e, http.MethodPost,
		`{"account_id":"`+worker.ID.String()+`","can_edit":true,"can_manage_payments":false}`, admin)
	c.SetParamNames(paramProjectID)
	c.SetParamValues(uuid.New().String())

	require.NoError(t, h.Grant(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, members.rows)
}

func TestProjectGetHiddenFromNonMembers(t *testing.T) {
	e := echo.New()
	members := newMemMembershipRepo()
	accounts := newFakeAccountRepo()
	admin := seedAccount(t, accounts, "lead@agency.example", "", account.RoleAdmin)
	member := seedAccount(t, accounts, "member@agency.example", "member", account.RoleStaff)
	outsider := seedAccount(t, accounts, "outsider@agency.example", "outsider", account.RoleStaff)

	projectID := uuid.New()
	projects := &memProjectRepo{rows: map[uuid.UUID]*project.Project{
		projectID: {ID: projectID, Name: "Site"},
	}}
	clients := &memClientRepo{rows: map[uuid.UUID]*client.Client{}}

	_, err := members.Grant(context.Background(), project.GrantMembershipInput{
		ProjectID: projectID, AccountID: member.ID, GrantedBy: admin.ID,
	})
	require.NoError(t, err)

	h := NewProjectHandler(projects, clients, authz.New(members))

	get := func(a *account.Account) *httptest.ResponseRecorder {
		c, rec := sessionContext(e, http.MethodGet, "", a)
		c.SetParamNames(paramID)
		c.SetParamValues(projectID.String())
		require.NoError(t, h.Get(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, get(admin).Code)
	assert.Equal(t, http.StatusOK, get(member).Code)
	// Hidden rows read as absent, matching the list scoping.
	assert.Equal(t, http.StatusNotFound, get(outsider).Code)
}

func TestClientGetScopedToMembership(t *testing.T) {
	e := echo.New()
	accounts := newFakeAccountRepo()
	admin := seedAccount(t, accounts, "lead@agency.example", "", account.RoleAdmin)
	member := seedAccount(t, accounts, "member@agency.example", "member", account.RoleStaff)
	outsider := seedAccount(t, accounts, "outsider@agency.example", "outsider", account.RoleStaff)

	clientID := uuid.New()
	clients := &memClientRepo{
		rows:      map[uuid.UUID]*client.Client{clientID: {ID: clientID, Name: "Acme"}},
		visibleTo: map[uuid.UUID]uuid.UUID{clientID: member.ID},
	}

	h := NewClientHandler(clients)

	get := func(a *account.Account) *httptest.ResponseRecorder {
		c, rec := sessionContext(e, http.MethodGet, "", a)
		c.SetParamNames(paramID)
		c.SetParamValues(clientID.String())
		require.NoError(t, h.Get(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, get(admin).Code)
	assert.Equal(t, http.StatusOK, get(member).Code)
	assert.Equal(t, http.StatusNotFound, get(outsider).Code)
}
