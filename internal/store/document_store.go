package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docqa/docqa/internal/domain"
)

// DocumentStore handles document metadata persistence. Every operation is
// scoped to the owning username; one user's handle can never reach another
// user's records.
type DocumentStore struct {
	db    *DB
	locks *ownerLocks
}

// NewDocumentStore creates a new document store
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db, locks: newOwnerLocks()}
}

// List retrieves all documents for an owner, newest upload first. An owner
// with no documents gets an empty list, not an error.
func (s *DocumentStore) List(owner string) ([]*domain.Document, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, file_type, size_bytes, upload_date, status, error, num_pages, tags
		FROM documents WHERE owner = ?
		ORDER BY upload_date DESC, id DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return documents, rows.Err()
}

// Get retrieves a document by ID. Returns (nil, nil) when no such
// document exists.
func (s *DocumentStore) Get(owner, docID string) (*domain.Document, error) {
	doc, err := scanDocument(s.db.QueryRow(`
		SELECT id, filename, file_type, size_bytes, upload_date, status, error, num_pages, tags
		FROM documents WHERE owner = ? AND id = ?
	`, owner, docID).Scan)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Save upserts a document by id, fully replacing any stored record.
// Callers wanting a partial update use Update instead.
func (s *DocumentStore) Save(owner string, doc *domain.Document) error {
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusPending
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	tagsJSON, _ := json.Marshal(doc.Tags)

	_, err := s.db.Exec(`
		INSERT INTO documents (owner, id, filename, file_type, size_bytes, upload_date, status, error, num_pages, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner, id) DO UPDATE SET
			filename = excluded.filename,
			file_type = excluded.file_type,
			size_bytes = excluded.size_bytes,
			upload_date = excluded.upload_date,
			status = excluded.status,
			error = excluded.error,
			num_pages = excluded.num_pages,
			tags = excluded.tags
	`, owner, doc.ID, doc.Filename, doc.FileType, doc.SizeBytes, doc.UploadDate,
		doc.Status, doc.Error, doc.NumPages, string(tagsJSON))
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// Update merges the given fields into an existing document and returns the
// merged record. Fails with domain.ErrNotFound when the document is absent.
func (s *DocumentStore) Update(owner, docID string, patch *domain.DocumentUpdate) (*domain.Document, error) {
	lock := s.locks.get(owner)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.Get(owner, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	if patch.Tags != nil {
		doc.Tags = *patch.Tags
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.Error != nil {
		doc.Error = *patch.Error
	}
	if patch.NumPages != nil {
		doc.NumPages = patch.NumPages
	}

	if err := s.Save(owner, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Delete removes a document. Returns false when no record existed;
// deleting a nonexistent id is a no-op, not an error.
func (s *DocumentStore) Delete(owner, docID string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM documents WHERE owner = ? AND id = ?`, owner, docID)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	doc := &domain.Document{}
	var errMsg, tagsJSON sql.NullString
	var numPages sql.NullInt64

	if err := scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.SizeBytes,
		&doc.UploadDate, &doc.Status, &errMsg, &numPages, &tagsJSON); err != nil {
		return nil, err
	}

	doc.Error = errMsg.String
	if numPages.Valid {
		n := int(numPages.Int64)
		doc.NumPages = &n
	}
	doc.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		json.Unmarshal([]byte(tagsJSON.String), &doc.Tags)
	}

	return doc, nil
}
