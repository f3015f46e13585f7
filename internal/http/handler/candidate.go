package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/domain/candidate"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
	"agency-service/pkg/validator"
)

type CandidateHandler struct {
	candidateRepo  repository.CandidateRepository
	submissionRepo repository.SubmissionRepository
}

func NewCandidateHandler(candidateRepo repository.CandidateRepository, submissionRepo repository.SubmissionRepository) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo:  candidateRepo,
		submissionRepo: submissionRepo,
	}
}

type CreateCandidateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

func (h *CandidateHandler) Create(c echo.Context) error {
	var req CreateCandidateRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validator.DisplayName("candidate name", req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	created, err := h.candidateRepo.Create(c.Request().Context(), candidate.CreateCandidateInput{
		Name:     req.Name,
		Email:    req.Email,
		Position: strings.TrimSpace(req.Position),
	})
	if err != nil {
		c.Logger().Errorf("failed to create candidate: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateCandidateFail)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *CandidateHandler) List(c echo.Context) error {
	candidates, err := h.candidateRepo.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list candidates: %v", err)
		return respondError(c, http.StatusInternalServerError, msgListCandidatesFail)
	}

	return c.JSON(http.StatusOK, candidates)
}

func (h *CandidateHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidCandidateID)
	}

	found, err := h.candidateRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgCandidateNotFound)
	}

	return c.JSON(http.StatusOK, found)
}

type UpdateCandidateRequest struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	Status   *string `json:"status"`
}

func (h *CandidateHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidCandidateID)
	}

	var req UpdateCandidateRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	input := candidate.UpdateCandidateInput{Name: req.Name, Position: req.Position}

	if req.Name != nil {
		if err := validator.DisplayName("candidate name", *req.Name); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	if req.Status != nil {
		status := candidate.Status(*req.Status)
		if !status.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidStatus)
		}
		input.Status = &status
	}

	if err := h.candidateRepo.Update(c.Request().Context(), id, input); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgCandidateNotFound)
		}
		c.Logger().Errorf("failed to update candidate %s: %v", id, err)
		return respondError(c, http.StatusInternalServerError, msgUpdateCandidateFail)
	}

	updated, err := h.candidateRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgCandidateNotFound)
	}

	return c.JSON(http.StatusOK, updated)
}

// Submission returns the candidate's onboarding submission, if any.
func (h *CandidateHandler) Submission(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidCandidateID)
	}

	if _, err := h.candidateRepo.GetByID(c.Request().Context(), id); err != nil {
		return respondError(c, http.StatusNotFound, msgCandidateNotFound)
	}

	sub, err := h.submissionRepo.GetByCandidate(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "no submission yet")
		}
		return respondError(c, http.StatusInternalServerError, msgListCandidatesFail)
	}

	return c.JSON(http.StatusOK, sub)
}
