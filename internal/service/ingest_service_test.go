package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/domain"
)

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, header, err := req.FormFile("file")
	require.NoError(t, err)
	return header
}

func TestIngestService_UploadAndProcess(t *testing.T) {
	pages := 7
	engine := &fakeEngine{numPages: &pages}
	svc := NewIngestService(newTestStore(t), engine, testConfig(), testLogger())

	doc, err := svc.Upload(context.Background(), "alice", uploadHeader(t, "report.pdf", "content"), []string{"q1"})
	require.NoError(t, err)
	assert.Equal(t, "pdf", doc.FileType)
	assert.Equal(t, int64(len("content")), doc.SizeBytes)
	assert.Equal(t, []string{"q1"}, doc.Tags)

	// Background processing ends in processed with the page count
	require.Eventually(t, func() bool {
		got, err := svc.Get("alice", doc.ID)
		return err == nil && got != nil && got.Status == domain.DocumentStatusProcessed
	}, 5*time.Second, 10*time.Millisecond)

	got, err := svc.Get("alice", doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NumPages)
	assert.Equal(t, pages, *got.NumPages)
}

func TestIngestService_ProcessFailureSetsError(t *testing.T) {
	engine := &fakeEngine{ingestErr: assert.AnError}
	svc := NewIngestService(newTestStore(t), engine, testConfig(), testLogger())

	doc, err := svc.Upload(context.Background(), "alice", uploadHeader(t, "broken.txt", "x"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := svc.Get("alice", doc.ID)
		return err == nil && got != nil && got.Status == domain.DocumentStatusError
	}, 5*time.Second, 10*time.Millisecond)

	got, err := svc.Get("alice", doc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Error)
}

func TestIngestService_RejectsUnsupportedType(t *testing.T) {
	svc := NewIngestService(newTestStore(t), &fakeEngine{}, testConfig(), testLogger())

	_, err := svc.Upload(context.Background(), "alice", uploadHeader(t, "image.png", "x"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestIngestService_ListFiltersByTag(t *testing.T) {
	svc := NewIngestService(newTestStore(t), &fakeEngine{}, testConfig(), testLogger())

	require.NoError(t, svc.store.Documents.Save("alice", &domain.Document{
		ID: "d1", Filename: "a.pdf", FileType: "pdf", Tags: []string{"finance"},
	}))
	require.NoError(t, svc.store.Documents.Save("alice", &domain.Document{
		ID: "d2", Filename: "b.pdf", FileType: "pdf", Tags: []string{"hr"},
	}))

	documents, err := svc.List("alice", "finance")
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "d1", documents[0].ID)
}

func TestIngestService_DeleteCleansUp(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewIngestService(newTestStore(t), engine, testConfig(), testLogger())

	doc, err := svc.Upload(context.Background(), "alice", uploadHeader(t, "gone.txt", "x"), nil)
	require.NoError(t, err)

	removed, err := svc.Delete(context.Background(), "alice", doc.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Contains(t, engine.removed, doc.ID)

	// Second delete is a no-op
	removed, err = svc.Delete(context.Background(), "alice", doc.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, "pdf", DetectFileType("Report.PDF"))
	assert.Equal(t, "txt", DetectFileType("notes.txt"))
	assert.Equal(t, "", DetectFileType("no-extension"))
	assert.False(t, IsSupported("png"))
	assert.True(t, IsSupported("csv"))
}
