package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/rag"
)

func testUser(t *testing.T, svc *QueryService) *domain.User {
	t.Helper()
	user := &domain.User{Username: "alice", HashedPassword: "h"}
	require.NoError(t, svc.store.CreateUser(user))
	return user
}

func newQueryService(t *testing.T, engine *fakeEngine) *QueryService {
	t.Helper()
	return NewQueryService(newTestStore(t), engine, testConfig(), testLogger())
}

func TestQueryService_ImplicitChatCreation(t *testing.T) {
	page := 2
	engine := &fakeEngine{answer: rag.AnswerResult{
		Answer:     "42",
		Confidence: 0.9,
		QueryTime:  1.2,
		Sources:    []domain.Source{{Filename: "guide.pdf", Page: &page}},
	}}
	svc := newQueryService(t, engine)
	user := testUser(t, svc)

	resp, err := svc.Ask(context.Background(), user, &domain.QueryRequest{
		Query: "what is the answer?",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Answer)
	assert.NotEmpty(t, resp.ChatID)

	// The first query of a fresh conversation created a chat holding the
	// question and the answer with its metadata
	chat, err := svc.store.Chats.Get("alice", resp.ChatID)
	require.NoError(t, err)
	require.NotNil(t, chat)
	assert.Equal(t, "what is the answer?", chat.Title)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, domain.SenderUser, chat.Messages[0].Sender)
	assert.Equal(t, domain.SenderSystem, chat.Messages[1].Sender)
	require.NotNil(t, chat.Messages[1].Confidence)
	assert.Equal(t, 0.9, *chat.Messages[1].Confidence)
	require.Len(t, chat.Messages[1].Sources, 1)
	assert.Equal(t, "guide.pdf", chat.Messages[1].Sources[0].Filename)
}

func TestQueryService_AppendsToExistingChat(t *testing.T) {
	engine := &fakeEngine{answer: rag.AnswerResult{Answer: "ok"}}
	svc := newQueryService(t, engine)
	user := testUser(t, svc)

	chat := &domain.Chat{Title: "existing"}
	require.NoError(t, svc.store.Chats.Create("alice", chat))

	resp, err := svc.Ask(context.Background(), user, &domain.QueryRequest{
		Query:  "follow-up",
		ChatID: chat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, chat.ID, resp.ChatID)

	got, err := svc.store.Chats.Get("alice", chat.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)

	count, err := svc.store.Chats.Count("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQueryService_MissingChat(t *testing.T) {
	engine := &fakeEngine{answer: rag.AnswerResult{Answer: "ok"}}
	svc := newQueryService(t, engine)
	user := testUser(t, svc)

	_, err := svc.Ask(context.Background(), user, &domain.QueryRequest{
		Query:  "hello",
		ChatID: "no-such-chat",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryService_FilterCriteria(t *testing.T) {
	engine := &fakeEngine{answer: rag.AnswerResult{Answer: "ok"}}
	svc := newQueryService(t, engine)
	user := testUser(t, svc)

	docs := []*domain.Document{
		{ID: "d1", Filename: "a.pdf", FileType: "pdf", Tags: []string{"finance", "q1"}},
		{ID: "d2", Filename: "b.txt", FileType: "txt", Tags: []string{"finance"}},
		{ID: "d3", Filename: "c.pdf", FileType: "pdf", Tags: []string{"hr"}},
	}
	for _, doc := range docs {
		require.NoError(t, svc.store.Documents.Save("alice", doc))
	}

	_, err := svc.Ask(context.Background(), user, &domain.QueryRequest{
		Query: "finance pdfs",
		FilterCriteria: &domain.FilterCriteria{
			Tags:      []string{"finance"},
			FileTypes: []string{"pdf"},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, engine.lastAnswer)
	assert.Equal(t, []string{"d1"}, engine.lastAnswer.DocumentIDs)
}

func TestQueryService_ExplicitDocumentIDsWinOverFilter(t *testing.T) {
	engine := &fakeEngine{answer: rag.AnswerResult{Answer: "ok"}}
	svc := newQueryService(t, engine)
	user := testUser(t, svc)

	_, err := svc.Ask(context.Background(), user, &domain.QueryRequest{
		Query:          "scoped",
		DocumentIDs:    []string{"d9"},
		FilterCriteria: &domain.FilterCriteria{Tags: []string{"finance"}},
	})
	require.NoError(t, err)

	require.NotNil(t, engine.lastAnswer)
	assert.Equal(t, []string{"d9"}, engine.lastAnswer.DocumentIDs)
}
