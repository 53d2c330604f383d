package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docqa/docqa/internal/config"
	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/rag"
	"github.com/docqa/docqa/internal/store"
)

// IngestService handles the document lifecycle: upload, background
// processing through the external pipeline, tag edits and deletion.
type IngestService struct {
	store  *store.Store
	engine rag.Engine
	cfg    *config.Config
	logger *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(st *store.Store, engine rag.Engine, cfg *config.Config, logger *zap.Logger) *IngestService {
	return &IngestService{store: st, engine: engine, cfg: cfg, logger: logger}
}

// FileType constants
const (
	FileTypePDF  = "pdf"
	FileTypeDOCX = "docx"
	FileTypeDOC  = "doc"
	FileTypeTXT  = "txt"
	FileTypeCSV  = "csv"
)

// DetectFileType detects file type from filename
func DetectFileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}
	return ext[1:] // remove leading dot
}

// IsSupported checks if file type is supported
func IsSupported(fileType string) bool {
	supported := map[string]bool{
		FileTypePDF:  true,
		FileTypeDOCX: true,
		FileTypeDOC:  true,
		FileTypeTXT:  true,
		FileTypeCSV:  true,
	}
	return supported[fileType]
}

// Upload stores an uploaded file, records its metadata and queues it for
// background processing.
func (s *IngestService) Upload(
	ctx context.Context,
	username string,
	file *multipart.FileHeader,
	tags []string,
) (*domain.Document, error) {
	fileType := DetectFileType(file.Filename)
	if !IsSupported(fileType) {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidRequest, fileType)
	}
	if file.Size > s.cfg.Upload.MaxSizeBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidRequest, s.cfg.Upload.MaxSizeBytes)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	docID := uuid.New().String()
	size, err := s.store.Files.Save(username, docID, fileType, src)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:        docID,
		Filename:  file.Filename,
		FileType:  fileType,
		SizeBytes: size,
		Status:    domain.DocumentStatusPending,
		Tags:      tags,
	}
	if err := s.store.Documents.Save(username, doc); err != nil {
		return nil, err
	}

	go s.process(username, doc)

	return doc, nil
}

// process drives the external pipeline and reports status transitions back
// into the document store. Runs detached from the upload request.
func (s *IngestService) process(username string, doc *domain.Document) {
	ctx := context.Background()

	setStatus := func(patch *domain.DocumentUpdate) {
		if _, err := s.store.Documents.Update(username, doc.ID, patch); err != nil {
			s.logger.Error("failed to update document status",
				zap.String("doc_id", doc.ID), zap.Error(err))
		}
	}

	processing := domain.DocumentStatusProcessing
	setStatus(&domain.DocumentUpdate{Status: &processing})

	result, err := s.engine.Ingest(ctx, rag.IngestRequest{
		Username: username,
		DocID:    doc.ID,
		FilePath: s.store.Files.Path(username, doc.ID, doc.FileType),
		FileType: doc.FileType,
		Filename: doc.Filename,
	})
	if err != nil {
		s.logger.Error("document processing failed",
			zap.String("doc_id", doc.ID), zap.Error(err))
		failed := domain.DocumentStatusError
		msg := err.Error()
		setStatus(&domain.DocumentUpdate{Status: &failed, Error: &msg})
		return
	}

	processed := domain.DocumentStatusProcessed
	setStatus(&domain.DocumentUpdate{Status: &processed, NumPages: result.NumPages})

	s.logger.Info("document processed",
		zap.String("username", username),
		zap.String("doc_id", doc.ID),
		zap.String("filename", doc.Filename))
}

// List returns the user's documents, optionally filtered by tag
func (s *IngestService) List(username, tag string) ([]*domain.Document, error) {
	documents, err := s.store.Documents.List(username)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return documents, nil
	}

	filtered := make([]*domain.Document, 0, len(documents))
	for _, doc := range documents {
		for _, t := range doc.Tags {
			if t == tag {
				filtered = append(filtered, doc)
				break
			}
		}
	}
	return filtered, nil
}

// Get returns a single document or nil when absent
func (s *IngestService) Get(username, docID string) (*domain.Document, error) {
	return s.store.Documents.Get(username, docID)
}

// UpdateTags replaces a document's tag list
func (s *IngestService) UpdateTags(username, docID string, tags []string) (*domain.Document, error) {
	return s.store.Documents.Update(username, docID, &domain.DocumentUpdate{Tags: &tags})
}

// Delete removes a document's metadata, its indexed chunks and its stored
// file. Returns false when the document did not exist.
func (s *IngestService) Delete(ctx context.Context, username, docID string) (bool, error) {
	doc, err := s.store.Documents.Get(username, docID)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}

	removed, err := s.store.Documents.Delete(username, docID)
	if err != nil {
		return false, err
	}

	if err := s.engine.RemoveDocument(ctx, username, docID); err != nil {
		s.logger.Warn("failed to remove document from index",
			zap.String("doc_id", docID), zap.Error(err))
	}
	if err := s.store.Files.Remove(username, docID, doc.FileType); err != nil {
		s.logger.Warn("failed to remove stored file",
			zap.String("doc_id", docID), zap.Error(err))
	}

	return removed, nil
}
