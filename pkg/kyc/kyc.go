package kyc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/tradeguard/dashkit/pkg/logger"
)

// DocumentType is the kind of identity document being submitted.
type DocumentType string

const (
	DocPassport       DocumentType = "passport"
	DocNationalID     DocumentType = "national_id"
	DocDrivingLicence DocumentType = "driving_licence"
	DocProofOfAddress DocumentType = "proof_of_address"
)

var documentTypes = map[DocumentType]struct{}{
	DocPassport:       {},
	DocNationalID:     {},
	DocDrivingLicence: {},
	DocProofOfAddress: {},
}

// Valid reports whether the document type is accepted.
func (d DocumentType) Valid() bool {
	_, ok := documentTypes[d]
	return ok
}

var contentTypeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// DefaultMaxDocumentSize bounds uploads at 10 MiB.
const DefaultMaxDocumentSize = 10 << 20

// Submission records one accepted document upload. Status stays pending
// until the platform reviews it.
type Submission struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Type        DocumentType `json:"type"`
	ObjectKey   string       `json:"object_key"`
	URL         string       `json:"url"`
	Status      string       `json:"status"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// StatusPending is the only status this side ever writes; approvals and
// rejections come back through notifications.
const StatusPending = "pending"

// Uploader stores a document and returns its public or internal URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Service validates and stores identity documents.
type Service struct {
	uploader Uploader
	maxSize  int64
	log      *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxDocumentSize overrides the upload size limit.
func WithMaxDocumentSize(n int64) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// WithServiceLogger sets the structured logger.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithServiceClock replaces the time source.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a submission service storing through the uploader.
func NewService(uploader Uploader, opts ...ServiceOption) *Service {
	s := &Service{
		uploader: uploader,
		maxSize:  DefaultMaxDocumentSize,
		log:      slog.Default().With(logger.Component("kyc")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the document and stores it under a key scoped to the
// user. The returned submission is pending review.
func (s *Service) Submit(ctx context.Context, userID string, docType DocumentType, contentType string, body io.Reader) (*Submission, error) {
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, docType)
	}
	ext, ok := contentTypeExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}

	// Read one byte past the limit to distinguish "at the limit" from
	// "over it" without buffering an unbounded body.
	data, err := io.ReadAll(io.LimitReader(body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrDocumentTooLarge
	}

	id := uuid.NewString()
	key := path.Join("kyc", userID, string(docType), id+ext)

	url, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		s.log.ErrorContext(ctx, "document upload failed",
			logger.UserID(userID), slog.String("document_type", string(docType)), logger.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	s.log.InfoContext(ctx, "document submitted",
		logger.UserID(userID), slog.String("document_type", string(docType)))

	return &Submission{
		ID:          id,
		UserID:      userID,
		Type:        docType,
		ObjectKey:   key,
		URL:         url,
		Status:      StatusPending,
		SubmittedAt: s.now(),
	}, nil
}
