package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agency-service/internal/domain/account"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
	"agency-service/pkg/password"
	"agency-service/pkg/validator"
)

// AccountHandler covers the admin-only account surface. There is no
// self-service signup: accounts are provisioned by an administrator.
type AccountHandler struct {
	accountRepo repository.AccountRepository
}

func NewAccountHandler(accountRepo repository.AccountRepository) *AccountHandler {
	return &AccountHandler{accountRepo: accountRepo}
}

type CreateAccountRequest struct {
	Email    string  `json:"email"`
	Handle   *string `json:"handle"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
}

type AccountResponse struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Handle   *string      `json:"handle,omitempty"`
	Name     string       `json:"name"`
	Role     account.Role `json:"role"`
	IsActive bool         `json:"is_active"`
}

func accountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:       a.ID.String(),
		Email:    a.Email,
		Handle:   a.Handle,
		Name:     a.Name,
		Role:     a.Role,
		IsActive: a.IsActive,
	}
}

func (h *AccountHandler) Create(c echo.Context) error {
	var req CreateAccountRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if req.Handle != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Handle))
		if err := validator.Handle(normalized); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		req.Handle = &normalized
	}

	if err := validator.Password(req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if err := validator.DisplayName("name", req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	role := account.Role(req.Role)
	if !role.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidRole)
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	acct, err := h.accountRepo.Create(c.Request().Context(), account.CreateAccountInput{
		Email:        req.Email,
		Handle:       req.Handle,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		c.Logger().Errorf("failed to create account: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	return c.JSON(http.StatusCreated, accountResponse(acct))
}

func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.accountRepo.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list accounts: %v", err)
		return respondError(c, http.StatusInternalServerError, msgListAccountsFail)
	}

	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse(a))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidAccountID)
	}

	acct, err := h.accountRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgAccountNotFound)
	}

	return c.JSON(http.StatusOK, accountResponse(acct))
}

type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// Update handles role changes, deactivation and password resets. A role
// change takes effect on the target's next login; existing sessions keep
// the old claim but authz predicates re-read memberships per request.
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidAccountID)
	}

	var req UpdateAccountRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	input := account.UpdateAccountInput{Name: req.Name, IsActive: req.IsActive}

	if req.Name != nil {
		if err := validator.DisplayName("name", *req.Name); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	if req.Role != nil {
		role := account.Role(*req.Role)
		if !role.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidRole)
		}
		input.Role = &role
	}

	if req.Password != nil {
		if err := validator.Password(*req.Password); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
		}
		input.PasswordHash = &hash
	}

	if err := h.accountRepo.Update(c.Request().Context(), id, input); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgAccountNotFound)
		}
		c.Logger().Errorf("failed to update account %s: %v", id, err)
		return respondError(c, http.StatusInternalServerError, msgUpdateAccountFail)
	}

	acct, err := h.accountRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgAccountNotFound)
	}

	return c.JSON(http.StatusOK, accountResponse(acct))
}
