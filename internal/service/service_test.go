package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docqa/docqa/internal/config"
	"github.com/docqa/docqa/internal/rag"
	"github.com/docqa/docqa/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dir := t.TempDir()
	db, err := store.NewDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	files, err := store.NewFileStore(filepath.Join(dir, "documents"))
	require.NoError(t, err)

	return store.New(db, files, store.DefaultMaxChats)
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			SecretKey: "test-secret",
			TokenTTL:  time.Hour,
		},
		Upload: config.UploadConfig{MaxSizeBytes: 1 << 20},
		Chats:  config.ChatsConfig{MaxPerUser: store.DefaultMaxChats},
		RAG:    config.RAGConfig{MaxResults: 5},
	}
}

// fakeEngine implements rag.Engine for testing
type fakeEngine struct {
	answer     rag.AnswerResult
	answerErr  error
	lastAnswer *rag.AnswerRequest
	numPages   *int
	ingestErr  error
	removed    []string
}

func (f *fakeEngine) Answer(ctx context.Context, req rag.AnswerRequest) (*rag.AnswerResult, error) {
	f.lastAnswer = &req
	if f.answerErr != nil {
		return nil, f.answerErr
	}
	result := f.answer
	return &result, nil
}

func (f *fakeEngine) Ingest(ctx context.Context, req rag.IngestRequest) (*rag.IngestResult, error) {
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return &rag.IngestResult{NumPages: f.numPages}, nil
}

func (f *fakeEngine) RemoveDocument(ctx context.Context, username, docID string) error {
	f.removed = append(f.removed, docID)
	return nil
}

var _ rag.Engine = (*fakeEngine)(nil)

func testLogger() *zap.Logger {
	return zap.NewNop()
}
