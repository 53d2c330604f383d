package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docqa/docqa/internal/config"
	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/rag"
	"github.com/docqa/docqa/internal/store"
)

// QueryService answers questions over a user's documents and records the
// exchange in a chat.
type QueryService struct {
	store  *store.Store
	engine rag.Engine
	cfg    *config.Config
	logger *zap.Logger
}

// NewQueryService creates a new query service
func NewQueryService(st *store.Store, engine rag.Engine, cfg *config.Config, logger *zap.Logger) *QueryService {
	return &QueryService{store: st, engine: engine, cfg: cfg, logger: logger}
}

// Ask runs a query through the answer pipeline. When the request names a
// chat the question and answer are appended to it; when it names none, a
// fresh chat is created first (subject to the retention cap).
func (s *QueryService) Ask(ctx context.Context, user *domain.User, req *domain.QueryRequest) (*domain.QueryResponse, error) {
	documentIDs := req.DocumentIDs
	if len(documentIDs) == 0 && req.FilterCriteria != nil {
		ids, err := s.resolveFilter(user.Username, req.FilterCriteria)
		if err != nil {
			return nil, err
		}
		documentIDs = ids
	}

	chatID := req.ChatID
	if chatID == "" {
		chat := &domain.Chat{
			UserID:      user.ID,
			Title:       chatTitle(req.Query),
			DocumentIDs: documentIDs,
		}
		if err := s.store.Chats.Create(user.Username, chat); err != nil {
			return nil, err
		}
		chatID = chat.ID
	} else if chat, err := s.store.Chats.Get(user.Username, chatID); err != nil {
		return nil, err
	} else if chat == nil {
		return nil, domain.ErrNotFound
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.RAG.MaxResults
	}

	if _, err := s.store.Chats.AppendMessage(user.Username, chatID, domain.Message{
		ID:        uuid.New().String(),
		Sender:    domain.SenderUser,
		Text:      req.Query,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	result, err := s.engine.Answer(ctx, rag.AnswerRequest{
		Query:       req.Query,
		Username:    user.Username,
		DocumentIDs: documentIDs,
		MaxResults:  maxResults,
	})
	if err != nil {
		s.logger.Error("answer pipeline failed",
			zap.String("username", user.Username), zap.Error(err))
		return nil, err
	}

	confidence := result.Confidence
	queryTime := result.QueryTime
	if _, err := s.store.Chats.AppendMessage(user.Username, chatID, domain.Message{
		ID:         uuid.New().String(),
		Sender:     domain.SenderSystem,
		Text:       result.Answer,
		Timestamp:  time.Now().UTC(),
		Confidence: &confidence,
		QueryTime:  &queryTime,
		Sources:    result.Sources,
	}); err != nil {
		return nil, err
	}

	return &domain.QueryResponse{
		Answer:     result.Answer,
		Sources:    result.Sources,
		Confidence: result.Confidence,
		QueryTime:  result.QueryTime,
		ChatID:     chatID,
	}, nil
}

// resolveFilter turns filter criteria into the matching document ids
func (s *QueryService) resolveFilter(username string, criteria *domain.FilterCriteria) ([]string, error) {
	documents, err := s.store.Documents.List(username)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, doc := range documents {
		if !hasAllTags(doc.Tags, criteria.Tags) {
			continue
		}
		if len(criteria.FileTypes) > 0 && !contains(criteria.FileTypes, doc.FileType) {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		if !contains(have, w) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// chatTitle derives a chat title from the first query of a conversation
func chatTitle(query string) string {
	const maxLen = 60
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen] + "..."
}
