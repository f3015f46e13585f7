package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/domain/contact"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
	"agency-service/pkg/validator"
)

type ContactHandler struct {
	contactRepo repository.ContactRepository
}

func NewContactHandler(contactRepo repository.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Submit is the public contact form. It only ever acknowledges receipt so
// the endpoint cannot be used to probe validation internals.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validator.DisplayName("name", req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	req.Subject = strings.TrimSpace(req.Subject)
	if err := validator.Subject(req.Subject); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if err := validator.Body(req.Body); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if _, err := h.contactRepo.Create(c.Request().Context(), contact.CreateMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}); err != nil {
		c.Logger().Errorf("failed to record contact message: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateMessageFail)
	}

	return respondMessage(c, http.StatusCreated, msgMessageQueued)
}

func (h *ContactHandler) List(c echo.Context) error {
	unhandledOnly, _ := strconv.ParseBool(c.QueryParam("unhandled"))

	messages, err := h.contactRepo.List(c.Request().Context(), unhandledOnly)
	if err != nil {
		c.Logger().Errorf("failed to list contact messages: %v", err)
		return respondError(c, http.StatusInternalServerError, msgListMessagesFail)
	}

	return c.JSON(http.StatusOK, messages)
}

func (h *ContactHandler) MarkHandled(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidMessageID)
	}

	if err := h.contactRepo.MarkHandled(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "message not found")
		}
		c.Logger().Errorf("failed to mark message %s handled: %v", id, err)
		return respondError(c, http.StatusInternalServerError, msgListMessagesFail)
	}

	return respondMessage(c, http.StatusOK, msgMarkedHandled)
}
