package domain

import "time"

// Document status constants
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusProcessed  = "processed"
	DocumentStatusError      = "error"
)

// Document represents uploaded document metadata, scoped to its owner
type Document struct {
	ID         string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadDate time.Time `json:"upload_date"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	NumPages   *int      `json:"num_pages,omitempty"`
	Tags       []string  `json:"tags"`
}

// DocumentUpdate lists the fields a caller may patch on a document.
// Nil fields are left untouched.
type DocumentUpdate struct {
	Tags     *[]string `json:"tags,omitempty"`
	Status   *string   `json:"status,omitempty"`
	Error    *string   `json:"error,omitempty"`
	NumPages *int      `json:"num_pages,omitempty"`
}
