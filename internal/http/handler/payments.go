package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/authz"
	"agency-service/internal/repository"
)

// PaymentsHandler exposes the per-project payment submission records to
// whoever may manage that project's payment links.
type PaymentsHandler struct {
	submissionRepo repository.SubmissionRepository
	projectRepo    repository.ProjectRepository
	authorizer     *authz.Authorizer
}

func NewPaymentsHandler(submissionRepo repository.SubmissionRepository, projectRepo repository.ProjectRepository, authorizer *authz.Authorizer) *PaymentsHandler {
	return &PaymentsHandler{
		submissionRepo: submissionRepo,
		projectRepo:    projectRepo,
		authorizer:     authorizer,
	}
}

func (h *PaymentsHandler) List(c echo.Context) error {
	projectID, actor, err := h.authorize(c)
	if projectID == uuid.Nil {
		return err
	}

	submissions, err := h.submissionRepo.ListByProject(c.Request().Context(), projectID)
	if err != nil {
		c.Logger().Errorf("failed to list payments for %s by %s: %v", projectID, actor.AccountID, err)
		return respondError(c, http.StatusInternalServerError, msgExportPaymentsFail)
	}

	return c.JSON(http.StatusOK, submissions)
}

var exportHeader = []string{"submitted_at", "payer_name", "payer_email", "reference", "file_name", "file_key", "size_bytes"}

// ExportCSV streams the project's payment submissions as CSV for the
// bookkeeping side.
func (h *PaymentsHandler) ExportCSV(c echo.Context) error {
	projectID, _, err := h.authorize(c)
	if projectID == uuid.Nil {
		return err
	}

	submissions, err := h.submissionRepo.ListByProject(c.Request().Context(), projectID)
	if err != nil {
		c.Logger().Errorf("failed to export payments for %s: %v", projectID, err)
		return respondError(c, http.StatusInternalServerError, msgExportPaymentsFail)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="payments-`+projectID.String()+`.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(exportHeader); err != nil {
		return err
	}

	for _, s := range submissions {
		record := []string{
			s.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			deref(s.PayerName),
			deref(s.PayerEmail),
			deref(s.Reference),
			s.FileName,
			s.FileKey,
			strconv.FormatInt(s.SizeBytes, 10),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *PaymentsHandler) authorize(c echo.Context) (uuid.UUID, authz.Actor, error) {
	projectID, err := uuid.Parse(c.Param(paramProjectID))
	if err != nil {
		return uuid.Nil, authz.Actor{}, respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	actor, err := actorFromContext(c)
	if err != nil {
		return uuid.Nil, authz.Actor{}, respondError(c, http.StatusUnauthorized, err.Error())
	}

	if _, err := h.projectRepo.GetByID(c.Request().Context(), projectID); err != nil {
		return uuid.Nil, authz.Actor{}, respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	if err := h.authorizer.RequireManagePayments(c.Request().Context(), actor, projectID); err != nil {
		return uuid.Nil, authz.Actor{}, err
	}

	return projectID, actor, nil
}
