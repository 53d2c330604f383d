package domain

import "time"

// Message sender constants
const (
	SenderUser   = "user"
	SenderSystem = "system"
)

// Source represents a citation backing a system answer
type Source struct {
	Filename string `json:"filename"`
	Page     *int   `json:"page,omitempty"`
}

// Message represents a single chat message. Answer metadata is only set
// on system messages.
type Message struct {
	ID         string    `json:"id"`
	Sender     string    `json:"sender"` // user, system
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence *float64  `json:"confidence,omitempty"`
	QueryTime  *float64  `json:"query_time_seconds,omitempty"`
	Sources    []Source  `json:"sources,omitempty"`
}

// Chat represents a conversation with its ordered message log
type Chat struct {
	ID          string    `json:"chat_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	DocumentIDs []string  `json:"document_ids"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateChatRequest is the request to create a chat
type CreateChatRequest struct {
	Title       string   `json:"title"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// ChatUpdate lists the fields a caller may patch on a chat. Message
// changes go through the append/delete message operations instead.
type ChatUpdate struct {
	Title       *string   `json:"title,omitempty"`
	DocumentIDs *[]string `json:"document_ids,omitempty"`
}

// ChatCountResponse reports how close a user is to the chat cap
type ChatCountResponse struct {
	Total      int `json:"total"`
	Remaining  int `json:"remaining"`
	MaxAllowed int `json:"max_allowed"`
}

// QueryRequest is the request to ask a question over the user's documents
type QueryRequest struct {
	Query          string          `json:"query" binding:"required"`
	DocumentIDs    []string        `json:"document_ids,omitempty"`
	MaxResults     int             `json:"max_results,omitempty"`
	FilterCriteria *FilterCriteria `json:"filter_criteria,omitempty"`
	ChatID         string          `json:"chat_id,omitempty"`
}

// FilterCriteria narrows a query to documents matching all given filters
type FilterCriteria struct {
	Tags      []string `json:"tags,omitempty"`
	FileTypes []string `json:"file_type,omitempty"`
}

// QueryResponse is the answer returned for a query
type QueryResponse struct {
	Answer     string   `json:"answer"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
	QueryTime  float64  `json:"query_time_seconds"`
	ChatID     string   `json:"chat_id,omitempty"`
}
