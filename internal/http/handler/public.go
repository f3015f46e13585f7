package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"agency-service/internal/domain/link"
	"agency-service/internal/links"
	"agency-service/internal/submissions"
	"agency-service/pkg/validator"
)

// PublicHandler is the entire sessionless surface: resolving a token into
// a renderable context and accepting the submission it gates.
type PublicHandler struct {
	linkService       *links.Service
	submissionService *submissions.Service
	maxUploadBytes    int64
}

func NewPublicHandler(linkService *links.Service, submissionService *submissions.Service, maxUploadBytes int64) *PublicHandler {
	return &PublicHandler{
		linkService:       linkService,
		submissionService: submissionService,
		maxUploadBytes:    maxUploadBytes,
	}
}

type ResolvedLinkResponse struct {
	Kind        link.Kind          `json:"kind"`
	ExpiresAt   time.Time          `json:"expires_at"`
	AmountCents *int64             `json:"amount_cents,omitempty"`
	Candidate   *ResolvedCandidate `json:"candidate,omitempty"`
	Project     *ResolvedProject   `json:"project,omitempty"`
}

type ResolvedCandidate struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

type ResolvedProject struct {
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
}

// Resolve turns a token into the context the public form needs. Unknown,
// expired and deactivated tokens are indistinguishable to the caller.
func (h *PublicHandler) Resolve(c echo.Context) error {
	resolved, err := h.linkService.Validate(c.Request().Context(), c.Param(paramToken))
	if err != nil {
		return err
	}

	resp := ResolvedLinkResponse{
		Kind:        resolved.Link.Kind,
		ExpiresAt:   resolved.Link.ExpiresAt,
		AmountCents: resolved.Link.AmountCents,
	}

	if resolved.Candidate != nil {
		resp.Candidate = &ResolvedCandidate{
			Name:     resolved.Candidate.Name,
			Position: resolved.Candidate.Position,
			Status:   string(resolved.Candidate.Status),
		}
	}

	if resolved.Project != nil {
		resp.Project = &ResolvedProject{Name: resolved.Project.Name}
		if resolved.Client != nil {
			resp.Project.ClientName = resolved.Client.Name
		}
	}

	return c.JSON(http.StatusOK, resp)
}

type SubmissionResponse struct {
	ID          string    `json:"id"`
	Kind        link.Kind `json:"kind"`
	FileName    string    `json:"file_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submit accepts the multipart upload a link gates. Payment links also
// carry optional payer fields in the form body.
func (h *PublicHandler) Submit(c echo.Context) error {
	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgMissingFile)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileReadFail)
	}
	defer src.Close()

	// Read one byte past the cap so the policy check can tell an
	// exactly-max file from an oversized one.
	data, err := io.ReadAll(io.LimitReader(src, h.maxUploadBytes+1))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileReadFail)
	}

	artifact := submissions.Artifact{
		FileName:    filepath.Base(fileHeader.Filename),
		ContentType: artifactContentType(fileHeader.Header.Get(echo.HeaderContentType), fileHeader.Filename),
		Data:        data,
	}

	details := paymentDetailsFromForm(c)

	recorded, err := h.submissionService.Submit(c.Request().Context(), c.Param(paramToken), artifact, details)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, SubmissionResponse{
		ID:          recorded.ID.String(),
		Kind:        recorded.Kind,
		FileName:    recorded.FileName,
		SubmittedAt: recorded.CreatedAt,
	})
}

func paymentDetailsFromForm(c echo.Context) submissions.PaymentDetails {
	var details submissions.PaymentDetails

	if v := strings.TrimSpace(c.FormValue(formFieldPayerName)); v != "" {
		details.PayerName = &v
	}
	if v := strings.ToLower(strings.TrimSpace(c.FormValue(formFieldPayerEmail))); v != "" {
		if err := validator.Email(v); err == nil {
			details.PayerEmail = &v
		}
	}
	if v := strings.TrimSpace(c.FormValue(formFieldReference)); v != "" {
		details.Reference = &v
	}

	return details
}

// artifactContentType prefers the declared part type and falls back to
// the file extension. jpg and jpeg both map to image/jpeg.
func artifactContentType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return declared
	}
}
