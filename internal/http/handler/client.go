package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/auth"
	"agency-service/internal/domain/account"
	"agency-service/internal/domain/client"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
	"agency-service/pkg/validator"
)

type ClientHandler struct {
	clientRepo repository.ClientRepository
}

func NewClientHandler(clientRepo repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo}
}

type CreateClientRequest struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req CreateClientRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validator.DisplayName("client name", req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if req.ContactEmail != "" {
		req.ContactEmail = strings.ToLower(strings.TrimSpace(req.ContactEmail))
		if err := validator.Email(req.ContactEmail); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	created, err := h.clientRepo.Create(c.Request().Context(), client.CreateClientInput{
		Name:         req.Name,
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		c.Logger().Errorf("failed to create client: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateClientFail)
	}

	return c.JSON(http.StatusCreated, created)
}

// List returns every client for admins; staff only see clients reachable
// through one of their project memberships. The filtering happens in SQL.
func (h *ClientHandler) List(c echo.Context) error {
	role, err := auth.GetRole(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()

	var clients []*client.Client
	if role == account.RoleAdmin {
		clients, err = h.clientRepo.List(ctx)
	} else {
		accountID, idErr := auth.GetAccountID(c)
		if idErr != nil {
			return respondError(c, http.StatusUnauthorized, idErr.Error())
		}
		clients, err = h.clientRepo.ListByMember(ctx, accountID)
	}
	if err != nil {
		c.Logger().Errorf("failed to list clients: %v", err)
		return respondError(c, http.StatusInternalServerError, msgListClientsFail)
	}

	return c.JSON(http.StatusOK, clients)
}

// Get applies the List visibility rule to single lookups: staff only see
// clients reachable through a membership, and a hidden client reads as
// absent.
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidClientID)
	}

	role, err := auth.GetRole(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()

	if role != account.RoleAdmin {
		accountID, idErr := auth.GetAccountID(c)
		if idErr != nil {
			return respondError(c, http.StatusUnauthorized, idErr.Error())
		}
		visible, vErr := h.clientRepo.VisibleToMember(ctx, id, accountID)
		if vErr != nil {
			c.Logger().Errorf("failed to check access to client %s: %v", id, vErr)
			return respondError(c, http.StatusInternalServerError, msgGetClientFail)
		}
		if !visible {
			return respondError(c, http.StatusNotFound, msgClientNotFound)
		}
	}

	found, err := h.clientRepo.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgClientNotFound)
	}

	return c.JSON(http.StatusOK, found)
}

type UpdateClientRequest struct {
	Name         *string `json:"name"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
}

func (h *ClientHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidClientID)
	}

	var req UpdateClientRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if req.Name != nil {
		if err := validator.DisplayName("client name", *req.Name); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	if req.ContactEmail != nil && *req.ContactEmail != "" {
		normalized := strings.ToLower(strings.TrimSpace(*req.ContactEmail))
		if err := validator.Email(normalized); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		req.ContactEmail = &normalized
	}

	err = h.clientRepo.Update(c.Request().Context(), id, client.UpdateClientInput{
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgClientNotFound)
		}
		c.Logger().Errorf("failed to update client %s: %v", id, err)
		return respondError(c, http.StatusInternalServerError, msgUpdateClientFail)
	}

	updated, err := h.clientRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgClientNotFound)
	}

	return c.JSON(http.StatusOK, updated)
}
