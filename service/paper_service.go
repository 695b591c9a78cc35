package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"crackexam-backend/models"
	"crackexam-backend/repository"
	"crackexam-backend/storage"
)

const pdfContentType = "application/pdf"

// PaperService coordinates the metadata repository and the blob store to
// implement create/replace/delete as compound operations. It holds no state
// of its own; every compound step favors availability over strict two-phase
// consistency because blobs are inert, re-uploadable documents.
type PaperService struct {
	repo    repository.PaperRepository
	storage storage.Storage
	logger  *slog.Logger
	timeout time.Duration
}

// PaperServiceOption is a functional option for PaperService.
type PaperServiceOption func(*PaperService)

// WithRepository sets the metadata repository.
func WithRepository(repo repository.PaperRepository) PaperServiceOption {
	return func(s *PaperService) {
		s.repo = repo
	}
}

// WithStorage sets the blob store adapter.
func WithStorage(st storage.Storage) PaperServiceOption {
	return func(s *PaperService) {
		s.storage = st
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) PaperServiceOption {
	return func(s *PaperService) {
		s.logger = logger
	}
}

// WithOutboundTimeout bounds every blob-store call.
func WithOutboundTimeout(d time.Duration) PaperServiceOption {
	return func(s *PaperService) {
		s.timeout = d
	}
}

// NewPaperService creates a new paper lifecycle service.
func NewPaperService(opts ...PaperServiceOption) *PaperService {
	s := &PaperService{
		logger:  slog.Default(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePaperRequest carries the inputs for creating a paper. FileBytes is
// the whole uploaded document held in memory; ExternalURL is the alternative
// for papers hosted elsewhere.
type CreatePaperRequest struct {
	College     string
	Degree      string
	Stream      string
	Subject     string
	Year        string
	FileName    string
	FileBytes   []byte
	ExternalURL string
}

// Create uploads the file (when present) and then persists the record.
// Upload failure aborts before any row exists, so no record ever points at
// a blob that was never stored. A repository failure after a successful
// upload triggers a compensating blob delete; if that also fails the blob
// is orphaned and the failure is only logged.
func (s *PaperService) Create(ctx context.Context, req CreatePaperRequest) (*models.Paper, error) {
	ext := externalURL(req.ExternalURL)

	var info storage.BlobInfo
	if len(req.FileBytes) > 0 {
		uctx, cancel := s.outbound(ctx)
		var err error
		info, err = s.storage.Upload(uctx, req.FileName, pdfContentType,
			bytes.NewReader(req.FileBytes), int64(len(req.FileBytes)))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("upload paper file: %w", err)
		}
	}

	paper := &models.Paper{
		College:  req.College,
		Degree:   req.Degree,
		Stream:   req.Stream,
		Subject:  req.Subject,
		Year:     req.Year,
		FileName: req.FileName,
		Content:  ext,
		BlobID:   info.ID,
	}
	if info.ID != "" {
		paper.Content = info.URL
	}

	if err := s.repo.Create(ctx, paper); err != nil {
		if info.ID != "" {
			s.compensateUpload(info.ID)
		}
		return nil, fmt.Errorf("create paper record: %w", err)
	}

	s.rewriteContent(paper)
	return paper, nil
}

// ReplacePaperRequest carries the inputs for replacing a paper. A nil
// FileBytes keeps the existing document.
type ReplacePaperRequest struct {
	College     string
	Degree      string
	Stream      string
	Subject     string
	Year        string
	FileName    string
	FileBytes   []byte
	ExternalURL string
}

// Replace rewrites the classification fields and optionally swaps the
// document. The old blob is deleted before the new upload; a failed delete
// is logged and never blocks the replacement. A failed upload aborts and
// leaves the record as-is, which can leave it pointing at an already-deleted
// blob until the next successful replace.
func (s *PaperService) Replace(ctx context.Context, id string, req ReplacePaperRequest) (*models.Paper, error) {
	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := externalURL(req.ExternalURL)
	replacingFile := len(req.FileBytes) > 0 || ext != ""
	if replacingFile && paper.BlobID != "" {
		s.deleteBlob(ctx, paper.BlobID, "replace")
	}

	paper.College = req.College
	paper.Degree = req.Degree
	paper.Stream = req.Stream
	paper.Subject = req.Subject
	paper.Year = req.Year

	if len(req.FileBytes) > 0 {
		uctx, cancel := s.outbound(ctx)
		info, err := s.storage.Upload(uctx, req.FileName, pdfContentType,
			bytes.NewReader(req.FileBytes), int64(len(req.FileBytes)))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("upload replacement file: %w", err)
		}
		paper.FileName = req.FileName
		paper.Content = info.URL
		paper.BlobID = info.ID
	} else if ext != "" {
		paper.FileName = ""
		paper.Content = ext
		paper.BlobID = ""
	}

	if err := s.repo.Update(ctx, paper); err != nil {
		return nil, fmt.Errorf("update paper record: %w", err)
	}

	s.rewriteContent(paper)
	return paper, nil
}

// Delete removes the record and cascades to its blob. A failed blob delete
// is logged and the row is removed regardless: a clean catalog wins over
// perfect blob hygiene.
func (s *PaperService) Delete(ctx context.Context, id string) error {
	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if paper.BlobID != "" {
		s.deleteBlob(ctx, paper.BlobID, "delete")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete paper record: %w", err)
	}
	return nil
}

// List returns all papers newest first, with Content rewritten to the relay
// reference for records that have an uploaded blob.
func (s *PaperService) List(ctx context.Context) ([]*models.Paper, error) {
	papers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	for _, p := range papers {
		s.rewriteContent(p)
	}
	return papers, nil
}

// Get returns a single paper with Content rewritten like List.
func (s *PaperService) Get(ctx context.Context, id string) (*models.Paper, error) {
	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.rewriteContent(paper)
	return paper, nil
}

// Stream opens the blob for the proxy relay. The request context governs the
// transfer; no extra timeout is imposed so large documents can finish.
func (s *PaperService) Stream(ctx context.Context, blobID string) (io.ReadCloser, int64, error) {
	return s.storage.Download(ctx, blobID)
}

const relayPrefix = "/api/pdf?id="

// RelayPath builds the public relay reference for a blob id. The id is
// carried as an escaped query value because it contains path separators.
func RelayPath(blobID string) string {
	return relayPrefix + url.QueryEscape(blobID)
}

// externalURL filters caller-supplied content. Relay references are derived
// state: a client echoing a record's current content back on an edit must
// not be taken as a request to switch the record to an external URL.
func externalURL(raw string) string {
	if strings.HasPrefix(raw, relayPrefix) {
		return ""
	}
	return raw
}

// rewriteContent applies the single content-resolution rule: a record with a
// blob id is always served through the relay, everything else keeps its
// stored URL untouched.
func (s *PaperService) rewriteContent(p *models.Paper) {
	if p.BlobID != "" {
		p.Content = RelayPath(p.BlobID)
	}
}

func (s *PaperService) deleteBlob(ctx context.Context, blobID, op string) {
	dctx, cancel := s.outbound(ctx)
	defer cancel()

	found, err := s.storage.Delete(dctx, blobID)
	switch {
	case err != nil:
		s.logger.Warn("blob delete failed, continuing",
			slog.String("op", op),
			slog.String("blobId", blobID),
			slog.String("error", err.Error()))
	case !found:
		s.logger.Info("blob already absent at provider",
			slog.String("op", op),
			slog.String("blobId", blobID))
	}
}

// compensateUpload removes a blob whose record insert failed. Runs on a
// fresh context because the request may already be cancelled.
func (s *PaperService) compensateUpload(blobID string) {
	dctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.storage.Delete(dctx, blobID); err != nil {
		s.logger.Warn("compensating blob delete failed, blob orphaned",
			slog.String("blobId", blobID),
			slog.String("error", err.Error()))
	}
}

func (s *PaperService) outbound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// IsNotFound reports whether err means the paper does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
