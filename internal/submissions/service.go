package submissions

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"agency-service/internal/domain/link"
	"agency-service/internal/domain/submission"
	"agency-service/internal/links"
	"agency-service/internal/repository"
	apperrors "agency-service/pkg/errors"
)

// ArtifactStore is the storage primitive pair the recorder depends on.
// Delete is the compensating action for every rejection that happens
// after the artifact was written.
type ArtifactStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
}

type Logger interface {
	Warnf(format string, args ...interface{})
}

// Artifact is the already-received upload as the handler hands it over.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PaymentDetails carries the optional payer metadata of a payment form.
type PaymentDetails struct {
	PayerName  *string
	PayerEmail *string
	Reference  *string
}

type Policy struct {
	AcceptedTypes []string
	MaxSizeBytes  int64
}

// Allows normalizes the declared content type (jpg and jpeg collapse to
// image/jpeg upstream) and checks it against the allow-list.
func (p Policy) Allows(contentType string) bool {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if semi := strings.Index(normalized, ";"); semi >= 0 {
		normalized = strings.TrimSpace(normalized[:semi])
	}
	for _, accepted := range p.AcceptedTypes {
		if normalized == accepted {
			return true
		}
	}
	return false
}

type Service struct {
	linkService *links.Service
	submissions repository.SubmissionRepository
	store       ArtifactStore
	policy      Policy
	logger      Logger
}

func NewService(linkService *links.Service, submissions repository.SubmissionRepository, store ArtifactStore, policy Policy, logger Logger) *Service {
	return &Service{
		linkService: linkService,
		submissions: submissions,
		store:       store,
		policy:      policy,
		logger:      logger,
	}
}

// Submit records an upload presented against a token. The token check,
// the artifact policy and the per-candidate uniqueness rule are hard
// preconditions evaluated in that order; none of them writes anything.
// The storage write and the database insert are not atomic, so every
// failure after the write deletes the stored object before returning.
func (s *Service) Submit(ctx context.Context, token string, artifact Artifact, details PaymentDetails) (*submission.Submission, error) {
	resolved, err := s.linkService.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.checkPolicy(artifact); err != nil {
		return nil, err
	}

	if resolved.Link.Kind == link.KindOnboarding {
		if _, err := s.submissions.GetByCandidate(ctx, resolved.Candidate.ID); err == nil {
			return nil, apperrors.AlreadySubmitted()
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	key := artifactKey(resolved.Link, artifact.FileName)
	if err := s.store.Put(ctx, key, artifact.ContentType, artifact.Data); err != nil {
		return nil, err
	}

	input := submission.RecordSubmissionInput{
		Kind:        resolved.Link.Kind,
		LinkID:      resolved.Link.ID,
		FileKey:     key,
		FileName:    artifact.FileName,
		ContentType: artifact.ContentType,
		SizeBytes:   int64(len(artifact.Data)),
	}

	var recorded *submission.Submission
	switch resolved.Link.Kind {
	case link.KindOnboarding:
		candidateID := resolved.Candidate.ID
		input.CandidateID = &candidateID
		recorded, err = s.submissions.RecordOnboarding(ctx, input)
	case link.KindPayment:
		projectID := resolved.Project.ID
		input.ProjectID = &projectID
		input.PayerName = details.PayerName
		input.PayerEmail = details.PayerEmail
		input.Reference = details.Reference
		recorded, err = s.submissions.RecordPayment(ctx, input)
	}

	if err != nil {
		s.discard(ctx, key)
		return nil, err
	}

	return recorded, nil
}

func (s *Service) checkPolicy(artifact Artifact) error {
	if len(artifact.Data) == 0 {
		return apperrors.InvalidArtifact("no file was provided")
	}

	if !s.policy.Allows(artifact.ContentType) {
		return apperrors.InvalidArtifact(fmt.Sprintf("content type %q is not accepted", artifact.ContentType))
	}

	if int64(len(artifact.Data)) > s.policy.MaxSizeBytes {
		return apperrors.InvalidArtifact(fmt.Sprintf("file exceeds the %d byte limit", s.policy.MaxSizeBytes))
	}

	return nil
}

// discard removes an orphaned storage object after a rejected insert.
// A failed delete is logged and swallowed: the caller's error is the
// rejection, not the cleanup.
func (s *Service) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil && s.logger != nil {
		s.logger.Warnf("failed to delete orphaned artifact %s: %v", key, err)
	}
}

func artifactKey(l *link.Link, fileName string) string {
	resource := ""
	switch {
	case l.CandidateID != nil:
		resource = l.CandidateID.String()
	case l.ProjectID != nil:
		resource = l.ProjectID.String()
	}
	return fmt.Sprintf("%s/%s/%s%s", l.Kind, resource, uuid.New(), strings.ToLower(path.Ext(fileName)))
}
