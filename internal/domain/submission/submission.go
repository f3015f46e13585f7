package submission

import (
	"time"

	"github.com/google/uuid"

	"agency-service/internal/domain/link"
)

type Submission struct {
	ID          uuid.UUID
	Kind        link.Kind
	LinkID      uuid.UUID
	CandidateID *uuid.UUID
	ProjectID   *uuid.UUID
	FileKey     string
	FileName    string
	ContentType string
	SizeBytes   int64
	PayerName   *string
	PayerEmail  *string
	Reference   *string
	CreatedAt   time.Time
}

type RecordSubmissionInput struct {
	Kind        link.Kind
	LinkID      uuid.UUID
	CandidateID *uuid.UUID
	ProjectID   *uuid.UUID
	FileKey     string
	FileName    string
	ContentType string
	SizeBytes   int64
	PayerName   *string
	PayerEmail  *string
	Reference   *string
}
