package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/domain/link"
	"agency-service/internal/links"
	"agency-service/pkg/validator"
)

// LinkHandler exposes the admin-side token link operations. Authorization
// decisions live in the links service; the handler only parses and maps.
type LinkHandler struct {
	linkService *links.Service
}

func NewLinkHandler(linkService *links.Service) *LinkHandler {
	return &LinkHandler{linkService: linkService}
}

type LinkResponse struct {
	ID          string    `json:"id"`
	Kind        link.Kind `json:"kind"`
	CandidateID *string   `json:"candidate_id,omitempty"`
	ProjectID   *string   `json:"project_id,omitempty"`
	Token       string    `json:"token"`
	URL         string    `json:"url"`
	Active      bool      `json:"active"`
	AmountCents *int64    `json:"amount_cents,omitempty"`
	Completed   bool      `json:"completed"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func linkResponse(l *link.Link) LinkResponse {
	resp := LinkResponse{
		ID:          l.ID.String(),
		Kind:        l.Kind,
		Token:       l.Token,
		URL:         publicLinkURL(l.Token),
		Active:      l.Active,
		AmountCents: l.AmountCents,
		Completed:   l.Completed,
		ExpiresAt:   l.ExpiresAt,
	}
	if l.CandidateID != nil {
		id := l.CandidateID.String()
		resp.CandidateID = &id
	}
	if l.ProjectID != nil {
		id := l.ProjectID.String()
		resp.ProjectID = &id
	}
	return resp
}

func publicLinkURL(token string) string {
	return "/public/links/" + token
}

// IssueOnboarding mints a fresh onboarding link for the candidate,
// superseding any active one.
func (h *LinkHandler) IssueOnboarding(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	candidateID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidCandidateID)
	}

	issued, err := h.linkService.IssueOnboarding(c.Request().Context(), candidateID, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, linkResponse(issued))
}

type IssuePaymentLinkRequest struct {
	AmountCents *int64 `json:"amount_cents"`
}

func (h *LinkHandler) IssuePayment(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramProjectID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	var req IssuePaymentLinkRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if req.AmountCents != nil {
		if err := validator.AmountCents(*req.AmountCents); err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidAmount)
		}
	}

	issued, err := h.linkService.IssuePayment(c.Request().Context(), projectID, req.AmountCents, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, linkResponse(issued))
}

type ToggleLinkRequest struct {
	Active bool `json:"active"`
}

func (h *LinkHandler) Toggle(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	linkID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidLinkID)
	}

	var req ToggleLinkRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	toggled, err := h.linkService.Toggle(c.Request().Context(), linkID, req.Active, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, linkResponse(toggled))
}

func (h *LinkHandler) Regenerate(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	linkID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidLinkID)
	}

	regenerated, err := h.linkService.Regenerate(c.Request().Context(), linkID, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, linkResponse(regenerated))
}

func (h *LinkHandler) ListByCandidate(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	candidateID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidCandidateID)
	}

	found, err := h.linkService.ListByCandidate(c.Request().Context(), candidateID, actor)
	if err != nil {
		return err
	}

	out := make([]LinkResponse, 0, len(found))
	for _, l := range found {
		out = append(out, linkResponse(l))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *LinkHandler) ListByProject(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramProjectID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	found, err := h.linkService.ListByProject(c.Request().Context(), projectID, actor)
	if err != nil {
		return err
	}

	out := make([]LinkResponse, 0, len(found))
	for _, l := range found {
		out = append(out, linkResponse(l))
	}

	return c.JSON(http.StatusOK, out)
}
