package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/auth"
	"agency-service/internal/domain/project"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
)

// MemberHandler manages per-project capability grants. Admin only: staff
// cannot change who works on what, even on their own projects.
type MemberHandler struct {
	memberRepo  repository.MembershipRepository
	projectRepo repository.ProjectRepository
	accountRepo repository.AccountRepository
}

func NewMemberHandler(memberRepo repository.MembershipRepository, projectRepo repository.ProjectRepository, accountRepo repository.AccountRepository) *MemberHandler {
	return &MemberHandler{
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
		accountRepo: accountRepo,
	}
}

type GrantMembershipRequest struct {
	AccountID         string `json:"account_id"`
	CanEdit           bool   `json:"can_edit"`
	CanManagePayments bool   `json:"can_manage_payments"`
}

// Grant upserts the membership: granting again for the same account
// replaces the flags instead of stacking rows.
func (h *MemberHandler) Grant(c echo.Context) error {
	grantedBy, err := auth.GetAccountID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramProjectID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	var req GrantMembershipRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidAccountID)
	}

	ctx := c.Request().Context()

	if _, err := h.projectRepo.GetByID(ctx, projectID); err != nil {
		return respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	if _, err := h.accountRepo.GetByID(ctx, accountID); err != nil {
		return respondError(c, http.StatusNotFound, msgAccountNotFound)
	}

	membership, err := h.memberRepo.Grant(ctx, project.GrantMembershipInput{
		ProjectID:         projectID,
		AccountID:         accountID,
		CanEdit:           req.CanEdit,
		CanManagePayments: req.CanManagePayments,
		GrantedBy:         grantedBy,
	})
	if err != nil {
		c.Logger().Errorf("failed to grant membership on %s: %v", projectID, err)
		return respondError(c, http.StatusInternalServerError, msgGrantMembershipFail)
	}

	return c.JSON(http.StatusOK, membership)
}

func (h *MemberHandler) List(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param(paramProjectID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	if _, err := h.projectRepo.GetByID(c.Request().Context(), projectID); err != nil {
		return respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	members, err := h.memberRepo.ListByProject(c.Request().Context(), projectID)
	if err != nil {
		c.Logger().Errorf("failed to list members of %s: %v", projectID, err)
		return respondError(c, http.StatusInternalServerError, msgListMembersFail)
	}

	return c.JSON(http.StatusOK, members)
}

// Revoke removes the membership row. Capability loss is immediate: the
// authorizer reads rows per request, not from session claims.
func (h *MemberHandler) Revoke(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param(paramProjectID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	accountID, err := uuid.Parse(c.Param(paramAccountID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidAccountID)
	}

	if err := h.memberRepo.Revoke(c.Request().Context(), projectID, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgMembershipGone)
		}
		c.Logger().Errorf("failed to revoke membership on %s: %v", projectID, err)
		return respondError(c, http.StatusInternalServerError, msgRevokeMemberFail)
	}

	return respondMessage(c, http.StatusOK, msgMemberRevoked)
}
