// Package rag talks to the external retrieval/answer pipeline. The
// pipeline is opaque to this server: it takes a query plus an optional
// document-id filter and returns an answer with confidence, citations and
// elapsed time.
package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/docqa/docqa/internal/domain"
)

// Engine is the answer/ingestion pipeline as seen by this server.
type Engine interface {
	// Answer runs a query over the user's indexed documents, optionally
	// restricted to the given document ids.
	Answer(ctx context.Context, req AnswerRequest) (*AnswerResult, error)
	// Ingest extracts, chunks and indexes a stored file.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
	// RemoveDocument drops a document's chunks from the index.
	RemoveDocument(ctx context.Context, username, docID string) error
}

// AnswerRequest is the input to the answer operation
type AnswerRequest struct {
	Query       string   `json:"query"`
	Username    string   `json:"username"`
	DocumentIDs []string `json:"document_ids,omitempty"`
	MaxResults  int      `json:"max_results,omitempty"`
}

// AnswerResult is the pipeline's answer with its metadata
type AnswerResult struct {
	Answer     string          `json:"answer"`
	Sources    []domain.Source `json:"sources"`
	Confidence float64         `json:"confidence"`
	QueryTime  float64         `json:"query_time_seconds"`
}

// IngestRequest asks the pipeline to process a stored file
type IngestRequest struct {
	Username string `json:"username"`
	DocID    string `json:"doc_id"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	Filename string `json:"filename"`
}

// IngestResult reports what the pipeline extracted
type IngestResult struct {
	NumPages *int `json:"num_pages,omitempty"`
}

// Client is an HTTP client for the pipeline service
type Client struct {
	http *resty.Client
}

var _ Engine = (*Client)(nil)

// NewClient creates a pipeline client against the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: client}
}

// Answer runs a query through the pipeline
func (c *Client) Answer(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	var result AnswerResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/answer")
	if err != nil {
		return nil, fmt.Errorf("failed to query answer pipeline: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("answer pipeline returned %s: %s", resp.Status(), resp.String())
	}

	return &result, nil
}

// Ingest asks the pipeline to process a stored file
func (c *Client) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	var result IngestResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/ingest")
	if err != nil {
		return nil, fmt.Errorf("failed to call ingestion pipeline: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ingestion pipeline returned %s: %s", resp.Status(), resp.String())
	}

	return &result, nil
}

// RemoveDocument drops a document's chunks from the index
func (c *Client) RemoveDocument(ctx context.Context, username, docID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "doc_id": docID}).
		Delete("/documents")
	if err != nil {
		return fmt.Errorf("failed to call ingestion pipeline: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ingestion pipeline returned %s: %s", resp.Status(), resp.String())
	}

	return nil
}
