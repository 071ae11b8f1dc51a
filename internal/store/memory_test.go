package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

func newTestApplication() *models.Application {
	return &models.Application{
		JobURL:     "https://x.com/job/1",
		ResumePath: "uploads/resumes/test.pdf",
		Status:     models.StatusProcessing,
		Logs: models.LogEntries{
			{Timestamp: time.Now().UTC(), Message: "Application received."},
		},
		UserID: "user-1",
	}
}

func TestMemoryStoreCreateGeneratesFallbackID(t *testing.T) {
	s := NewMemoryStore()

	id, err := s.Create(context.Background(), newTestApplication())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, FallbackIDPrefix))

	id2, err := s.Create(context.Background(), newTestApplication())
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestMemoryStoreUpdateAppendsLogs(t *testing.T) {
	s := NewMemoryStore()
	id, err := s.Create(context.Background(), newTestApplication())
	require.NoError(t, err)

	entry := models.LogEntry{Timestamp: time.Now().UTC(), Message: "step one"}
	require.NoError(t, s.Update(context.Background(), id, RecordUpdate{Logs: []models.LogEntry{entry}}))
	require.NoError(t, s.Update(context.Background(), id, RecordUpdate{Logs: []models.LogEntry{entry}}))

	app, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	// Two identical appends produce two entries, never an overwrite.
	require.Len(t, app.Logs, 3)
	assert.Equal(t, "Application received.", app.Logs[0].Message)
	assert.Equal(t, "step one", app.Logs[1].Message)
	assert.Equal(t, "step one", app.Logs[2].Message)
}

func TestMemoryStoreUpdateMergesScalarFields(t *testing.T) {
	s := NewMemoryStore()
	id, err := s.Create(context.Background(), newTestApplication())
	require.NoError(t, err)

	processing := models.StatusProcessing
	failed := models.StatusFailed
	taskID := "task-42"

	require.NoError(t, s.Update(context.Background(), id, RecordUpdate{Status: &processing}))
	require.NoError(t, s.Update(context.Background(), id, RecordUpdate{Status: &failed, TaskID: &taskID}))
	// Absent fields are a no-op.
	require.NoError(t, s.Update(context.Background(), id, RecordUpdate{}))

	app, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, app.Status)
	assert.Equal(t, "task-42", app.TaskID)
}

func TestMemoryStoreUpdateUnknownID(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "mem_0", RecordUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	id, err := s.Create(context.Background(), newTestApplication())
	require.NoError(t, err)

	app, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	app.Logs[0].Message = "mutated by caller"
	app.Status = "mutated"

	fresh, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Application received.", fresh.Logs[0].Message)
	assert.Equal(t, models.StatusProcessing, fresh.Status)
}

func TestMemoryStoreSubmissionDeduplicates(t *testing.T) {
	s := NewMemoryStore()
	rec := &models.SubmissionRecord{
		UserID:        "user-1",
		ApplicationID: "mem_1",
		JobURL:        "https://x.com/job/1",
		Platform:      "LinkedIn",
		Status:        models.SubmissionOK,
	}
	require.NoError(t, s.RecordSubmission(context.Background(), rec))
	require.NoError(t, s.RecordSubmission(context.Background(), rec))

	assert.Len(t, s.Submissions(), 1)
}
