package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/auth"
	"agency-service/internal/authz"
	"agency-service/internal/domain/account"
	"agency-service/internal/domain/project"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
	"agency-service/pkg/validator"
)

type ProjectHandler struct {
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
	authorizer  *authz.Authorizer
}

func NewProjectHandler(projectRepo repository.ProjectRepository, clientRepo repository.ClientRepository, authorizer *authz.Authorizer) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		authorizer:  authorizer,
	}
}

type CreateProjectRequest struct {
	ClientID    string `json:"client_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	var req CreateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidClientID)
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validator.DisplayName("project name", req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := validator.ProjectCode(req.Code); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if _, err := h.clientRepo.GetByID(c.Request().Context(), clientID); err != nil {
		return respondError(c, http.StatusNotFound, msgClientNotFound)
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	created, err := h.projectRepo.Create(c.Request().Context(), project.CreateProjectInput{
		ClientID:    clientID,
		Code:        req.Code,
		Slug:        deriveSlug(req.Name, req.Code),
		Name:        req.Name,
		Category:    strings.TrimSpace(req.Category),
		Status:      status,
		Description: req.Description,
		CreatedBy:   accountID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, "project code already in use")
		}
		c.Logger().Errorf("failed to create project: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateProjectFail)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *ProjectHandler) List(c echo.Context) error {
	role, err := auth.GetRole(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()

	var projects []*project.Project
	if role == account.RoleAdmin {
		projects, err = h.projectRepo.List(ctx)
	} else {
		accountID, idErr := auth.GetAccountID(c)
		if idErr != nil {
			return respondError(c, http.StatusUnauthorized, idErr.Error())
		}
		projects, err = h.projectRepo.ListByMember(ctx, accountID)
	}
	if err != nil {
		c.Logger().Errorf("failed to list projects: %v", err)
		return respondError(c, http.StatusInternalServerError, msgListProjectsFail)
	}

	return c.JSON(http.StatusOK, projects)
}

// Get applies the same visibility rule as List: staff only see projects
// they hold a membership on, and a hidden project reads as absent.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()

	visible, err := h.authorizer.CanViewProject(ctx, actor, id)
	if err != nil {
		c.Logger().Errorf("failed to check access to project %s: %v", id, err)
		return respondError(c, http.StatusInternalServerError, msgGetProjectFail)
	}
	if !visible {
		return respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	found, err := h.projectRepo.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	return c.JSON(http.StatusOK, found)
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// Update requires the edit capability: admin role or a membership row
// with can_edit on this project, checked against current rows.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	if err := h.authorizer.RequireEditProject(c.Request().Context(), actor, id); err != nil {
		return err
	}

	var req UpdateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if req.Name != nil {
		if err := validator.DisplayName("project name", *req.Name); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	err = h.projectRepo.Update(c.Request().Context(), id, project.UpdateProjectInput{
		Name:        req.Name,
		Category:    req.Category,
		Status:      req.Status,
		Description: req.Description,
		UpdatedBy:   actor.AccountID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgProjectNotFound)
		}
		c.Logger().Errorf("failed to update project %s: %v", id, err)
		return respondError(c, http.StatusInternalServerError, msgUpdateProjectFail)
	}

	updated, err := h.projectRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	return c.JSON(http.StatusOK, updated)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// deriveSlug builds a URL-safe identifier from the project name with the
// human code appended so renamed projects keep distinct slugs.
func deriveSlug(name, code string) string {
	slug := strings.ToLower(name)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug + "-" + strings.ToLower(code)
}

func actorFromContext(c echo.Context) (authz.Actor, error) {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return authz.Actor{}, err
	}

	role, err := auth.GetRole(c)
	if err != nil {
		return authz.Actor{}, err
	}

	return authz.Actor{AccountID: accountID, Role: role}, nil
}
