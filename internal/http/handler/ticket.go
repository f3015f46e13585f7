package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/auth"
	"agency-service/internal/domain/account"
	"agency-service/internal/domain/ticket"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
	"agency-service/pkg/validator"
)

// TicketHandler covers the internal support queue. Any authenticated
// account can open tickets and comment; closing is restricted to the
// opener or an administrator.
type TicketHandler struct {
	ticketRepo  repository.TicketRepository
	projectRepo repository.ProjectRepository
}

func NewTicketHandler(ticketRepo repository.TicketRepository, projectRepo repository.ProjectRepository) *TicketHandler {
	return &TicketHandler{
		ticketRepo:  ticketRepo,
		projectRepo: projectRepo,
	}
}

type CreateTicketRequest struct {
	ProjectID *string `json:"project_id"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
}

func (h *TicketHandler) Create(c echo.Context) error {
	openedBy, err := auth.GetAccountID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	var req CreateTicketRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Subject = strings.TrimSpace(req.Subject)
	if err := validator.Subject(req.Subject); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if err := validator.Body(req.Body); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	input := ticket.CreateTicketInput{
		OpenedBy: openedBy,
		Subject:  req.Subject,
		Body:     req.Body,
	}

	if req.ProjectID != nil {
		projectID, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
		}
		if _, err := h.projectRepo.GetByID(c.Request().Context(), projectID); err != nil {
			return respondError(c, http.StatusNotFound, msgProjectNotFound)
		}
		input.ProjectID = &projectID
	}

	created, err := h.ticketRepo.Create(c.Request().Context(), input)
	if err != nil {
		c.Logger().Errorf("failed to create ticket: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateTicketFail)
	}

	return c.JSON(http.StatusCreated, created)
}

// List returns all tickets for admins, own tickets for staff.
func (h *TicketHandler) List(c echo.Context) error {
	role, err := auth.GetRole(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()

	var tickets []*ticket.Ticket
	if role == account.RoleAdmin {
		tickets, err = h.ticketRepo.List(ctx)
	} else {
		accountID, idErr := auth.GetAccountID(c)
		if idErr != nil {
			return respondError(c, http.StatusUnauthorized, idErr.Error())
		}
		tickets, err = h.ticketRepo.ListByOpener(ctx, accountID)
	}
	if err != nil {
		c.Logger().Errorf("failed to list tickets: %v", err)
		return respondError(c, http.StatusInternalServerError, msgListTicketsFail)
	}

	return c.JSON(http.StatusOK, tickets)
}

type TicketDetailResponse struct {
	Ticket   *ticket.Ticket    `json:"ticket"`
	Comments []*ticket.Comment `json:"comments"`
}

func (h *TicketHandler) Get(c echo.Context) error {
	found, err := h.loadVisible(c)
	if found == nil {
		return err
	}

	comments, err := h.ticketRepo.ListComments(c.Request().Context(), found.ID)
	if err != nil {
		c.Logger().Errorf("failed to list comments for %s: %v", found.ID, err)
		return respondError(c, http.StatusInternalServerError, msgListTicketsFail)
	}

	return c.JSON(http.StatusOK, TicketDetailResponse{Ticket: found, Comments: comments})
}

type AddCommentRequest struct {
	Body string `json:"body"`
}

func (h *TicketHandler) AddComment(c echo.Context) error {
	found, err := h.loadVisible(c)
	if found == nil {
		return err
	}

	if found.Status == ticket.StatusClosed {
		return respondError(c, http.StatusConflict, msgTicketClosed)
	}

	authorID, err := auth.GetAccountID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	var req AddCommentRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := validator.Body(req.Body); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	comment, err := h.ticketRepo.AddComment(c.Request().Context(), ticket.AddCommentInput{
		TicketID: found.ID,
		AuthorID: authorID,
		Body:     req.Body,
	})
	if err != nil {
		c.Logger().Errorf("failed to comment on %s: %v", found.ID, err)
		return respondError(c, http.StatusInternalServerError, msgAddCommentFail)
	}

	return c.JSON(http.StatusCreated, comment)
}

// Close is allowed for the opener and for admins.
func (h *TicketHandler) Close(c echo.Context) error {
	found, err := h.loadVisible(c)
	if found == nil {
		return err
	}

	if err := h.ticketRepo.SetStatus(c.Request().Context(), found.ID, ticket.StatusClosed); err != nil {
		c.Logger().Errorf("failed to close ticket %s: %v", found.ID, err)
		return respondError(c, http.StatusInternalServerError, msgListTicketsFail)
	}

	closed, err := h.ticketRepo.GetByID(c.Request().Context(), found.ID)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgTicketNotFound)
	}

	return c.JSON(http.StatusOK, closed)
}

// loadVisible fetches the ticket and enforces visibility: staff see only
// tickets they opened, admins see all. Hidden tickets read as missing.
func (h *TicketHandler) loadVisible(c echo.Context) (*ticket.Ticket, error) {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return nil, respondError(c, http.StatusBadRequest, msgInvalidTicketID)
	}

	found, err := h.ticketRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, respondError(c, http.StatusNotFound, msgTicketNotFound)
		}
		return nil, respondError(c, http.StatusInternalServerError, msgListTicketsFail)
	}

	role, err := auth.GetRole(c)
	if err != nil {
		return nil, respondError(c, http.StatusUnauthorized, err.Error())
	}

	if role != account.RoleAdmin {
		accountID, idErr := auth.GetAccountID(c)
		if idErr != nil {
			return nil, respondError(c, http.StatusUnauthorized, idErr.Error())
		}
		if found.OpenedBy != accountID {
			return nil, respondError(c, http.StatusNotFound, msgTicketNotFound)
		}
	}

	return found, nil
}
