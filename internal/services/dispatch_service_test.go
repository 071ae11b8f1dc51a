package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/store"
)

type stubAgent struct {
	result *dtos.AgentTaskResult
	err    error
	tasks  []*dtos.AgentTaskRequest
}

func (a *stubAgent) RunTask(_ context.Context, task *dtos.AgentTaskRequest) (*dtos.AgentTaskResult, error) {
	a.tasks = append(a.tasks, task)
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) ExtractText(string) (string, error) {
	return e.text, e.err
}

func newDispatchFixture(t *testing.T, agent *stubAgent, extractor *stubExtractor) (*DispatchService, *ApplicationService, *store.MemoryStore, string) {
	t.Helper()
	mem := store.NewMemoryStore()
	apps := NewApplicationService(mem, zap.NewNop())
	dispatch := NewDispatchService(apps, agent, extractor, mem, 2, 8000, zap.NewNop())

	id, err := apps.CreateApplication(context.Background(), validInput())
	require.NoError(t, err)
	return dispatch, apps, mem, id
}

func TestRunMarksAppliedAndRecordsSubmission(t *testing.T) {
	agent := &stubAgent{result: &dtos.AgentTaskResult{
		Status: "completed",
		Result: "Application submitted successfully",
		TaskID: "task-42",
	}}
	dispatch, apps, mem, id := newDispatchFixture(t, agent, &stubExtractor{text: "resume body"})

	dispatch.run(id, "LinkedIn", "https://linkedin.com/login")

	app, err := apps.GetApplication(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, "task-42", app.TaskID)
	last := app.Logs[len(app.Logs)-1]
	assert.Contains(t, last.Message, "SUCCESS")

	subs := mem.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, id, subs[0].ApplicationID)
	assert.Equal(t, "LinkedIn", subs[0].Platform)
	assert.Equal(t, models.SubmissionOK, subs[0].Status)

	require.Len(t, agent.tasks, 1)
	assert.Equal(t, "resume body", agent.tasks[0].ResumeText)
	assert.Equal(t, "alice", agent.tasks[0].Username)
}

func TestRunNonCompletedMarksFailedWithoutSubmission(t *testing.T) {
	agent := &stubAgent{result: &dtos.AgentTaskResult{
		Status: "error",
		Result: "captcha challenge blocked the session",
	}}
	dispatch, apps, mem, id := newDispatchFixture(t, agent, &stubExtractor{text: "resume body"})

	dispatch.run(id, "", "")

	app, err := apps.GetApplication(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, app.Status)
	last := app.Logs[len(app.Logs)-1]
	assert.Contains(t, last.Message, "FAILED")
	assert.Empty(t, mem.Submissions())
}

func TestRunAgentErrorMarksFailed(t *testing.T) {
	agent := &stubAgent{err: errors.New("calling automation agent: connection refused")}
	dispatch, apps, mem, id := newDispatchFixture(t, agent, &stubExtractor{text: "resume body"})

	dispatch.run(id, "", "")

	app, err := apps.GetApplication(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, app.Status)
	last := app.Logs[len(app.Logs)-1]
	assert.Contains(t, last.Message, "Agent error")
	assert.Empty(t, mem.Submissions())
}

func TestRunExtractionFailureStillCallsAgent(t *testing.T) {
	agent := &stubAgent{result: &dtos.AgentTaskResult{Status: "completed", Result: "ok"}}
	extractor := &stubExtractor{err: errors.New("opening resume PDF: bad header")}
	dispatch, apps, _, id := newDispatchFixture(t, agent, extractor)

	dispatch.run(id, "", "")

	require.Len(t, agent.tasks, 1)
	assert.Equal(t, "Failed to extract text from resume.", agent.tasks[0].ResumeText)

	app, err := apps.GetApplication(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
}

func TestRunDefaultsPlatform(t *testing.T) {
	agent := &stubAgent{result: &dtos.AgentTaskResult{Status: "completed", Result: "ok"}}
	dispatch, _, mem, id := newDispatchFixture(t, agent, &stubExtractor{text: "resume body"})

	dispatch.run(id, "", "")

	require.Len(t, agent.tasks, 1)
	assert.Equal(t, "LinkedIn", agent.tasks[0].PlatformName)
	require.Len(t, mem.Submissions(), 1)
	assert.Equal(t, "LinkedIn", mem.Submissions()[0].Platform)
}

func TestRunUnknownApplicationIsSwallowed(t *testing.T) {
	agent := &stubAgent{result: &dtos.AgentTaskResult{Status: "completed", Result: "ok"}}
	dispatch, _, _, _ := newDispatchFixture(t, agent, &stubExtractor{text: "resume body"})

	// Must not panic and must not reach the agent.
	dispatch.run("mem_does_not_exist", "", "")
	assert.Empty(t, agent.tasks)
}

func TestDispatchRunsDetached(t *testing.T) {
	agent := &stubAgent{result: &dtos.AgentTaskResult{Status: "completed", Result: "ok"}}
	dispatch, apps, _, id := newDispatchFixture(t, agent, &stubExtractor{text: "resume body"})

	dispatch.Dispatch(id, "", "")

	require.Eventually(t, func() bool {
		app, err := apps.GetApplication(context.Background(), id)
		return err == nil && app.Status == models.StatusApplied
	}, 2*time.Second, 10*time.Millisecond)
}
