package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/metrics"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/store"
)

const defaultPlatform = "LinkedIn"

// resultSummaryLimit bounds how much of the agent's result text goes
// into the terminal log line.
const resultSummaryLimit = 50

// AgentCaller is the outbound contract to the external automation agent.
type AgentCaller interface {
	RunTask(ctx context.Context, task *dtos.AgentTaskRequest) (*dtos.AgentTaskResult, error)
}

// ResumeExtractor turns a resume file into plain text.
type ResumeExtractor interface {
	ExtractText(path string) (string, error)
}

// DispatchService performs the slow agent work entirely detached from
// the HTTP request lifecycle and translates the result into a terminal
// status transition. Its failures never propagate to the HTTP caller.
type DispatchService struct {
	apps        *ApplicationService
	agent       AgentCaller
	resumes     ResumeExtractor
	submissions store.SubmissionStore
	sem         *semaphore.Weighted
	textLimit   int
	logger      *zap.Logger
}

func NewDispatchService(
	apps *ApplicationService,
	agent AgentCaller,
	resumes ResumeExtractor,
	submissions store.SubmissionStore,
	maxConcurrent int64,
	textLimit int,
	logger *zap.Logger,
) *DispatchService {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &DispatchService{
		apps:        apps,
		agent:       agent,
		resumes:     resumes,
		submissions: submissions,
		sem:         semaphore.NewWeighted(maxConcurrent),
		textLimit:   textLimit,
		logger:      logger,
	}
}

// Dispatch launches the agent run in the background and returns
// immediately. The HTTP response is sent before any of this work starts.
func (s *DispatchService) Dispatch(id, platformName, loginURL string) {
	go s.run(id, platformName, loginURL)
}

func (s *DispatchService) run(id, platformName, loginURL string) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panicked", zap.String("id", id), zap.Any("panic", r))
			s.fail(ctx, id, fmt.Errorf("internal dispatch error: %v", r))
		}
	}()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.fail(ctx, id, fmt.Errorf("acquiring dispatch slot: %w", err))
		return
	}
	defer s.sem.Release(1)

	metrics.DispatchActive.Inc()
	defer metrics.DispatchActive.Dec()

	app, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		s.fail(ctx, id, fmt.Errorf("loading application: %w", err))
		return
	}

	platform := platformName
	if platform == "" {
		platform = defaultPlatform
	}

	s.apps.AppendLog(ctx, id, "Extracting resume text from PDF...")

	absPath, err := filepath.Abs(app.ResumePath)
	if err != nil {
		absPath = app.ResumePath
	}

	// A broken resume degrades to placeholder text; the agent call still
	// proceeds so the submission attempt is not lost.
	resumeText, err := s.resumes.ExtractText(absPath)
	if err != nil {
		s.logger.Warn("resume extraction failed, continuing with placeholder",
			zap.String("id", id), zap.Error(err))
		resumeText = "Failed to extract text from resume."
	}
	resumeText = BoundText(resumeText, s.textLimit)

	s.apps.AppendLog(ctx, id, fmt.Sprintf("Resume processed (%d chars). Sending to automation agent...", len(resumeText)))

	task := &dtos.AgentTaskRequest{
		URL:          app.JobURL,
		ResumeText:   resumeText,
		ResumePath:   absPath,
		Rules:        app.Rules,
		Username:     app.Credentials.Username,
		Password:     app.Credentials.Password,
		PlatformName: platform,
		LoginURL:     loginURL,
	}

	start := time.Now()
	result, err := s.agent.RunTask(ctx, task)
	metrics.AgentCallDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())
	if err != nil {
		s.fail(ctx, id, err)
		return
	}

	if result.TaskID != "" {
		s.apps.SetTaskID(ctx, id, result.TaskID)
	}

	resultText := result.Result
	if resultText == "" {
		resultText = "No result"
	}
	summary := resultText
	if len(summary) > resultSummaryLimit {
		summary = summary[:resultSummaryLimit]
	}

	if result.Completed() {
		s.apps.UpdateStatus(ctx, id, models.StatusApplied,
			fmt.Sprintf("Agent finished: SUCCESS - %s...", summary))
		metrics.DispatchOutcomes.WithLabelValues(models.StatusApplied).Inc()
		s.recordSubmission(ctx, app, platform)
	} else {
		s.apps.UpdateStatus(ctx, id, models.StatusFailed,
			fmt.Sprintf("Agent finished: FAILED - %s...", summary))
		metrics.DispatchOutcomes.WithLabelValues(models.StatusFailed).Inc()
	}
}

// fail marks the application failed with the error text. Errors inside
// the detached path can only ever surface through the status/log trail.
func (s *DispatchService) fail(ctx context.Context, id string, err error) {
	s.logger.Error("agent dispatch failed", zap.String("id", id), zap.Error(err))
	s.apps.UpdateStatus(ctx, id, models.StatusFailed, fmt.Sprintf("Agent error: %s", err.Error()))
	metrics.DispatchOutcomes.WithLabelValues(models.StatusFailed).Inc()
}

func (s *DispatchService) recordSubmission(ctx context.Context, app *models.Application, platform string) {
	rec := &models.SubmissionRecord{
		UserID:        app.UserID,
		ApplicationID: app.ID,
		JobURL:        app.JobURL,
		Platform:      platform,
		Status:        models.SubmissionOK,
		Timestamp:     time.Now().UTC(),
	}
	// Audit trail is best effort: a store error must not flip a
	// successful application to failed.
	if err := s.submissions.RecordSubmission(ctx, rec); err != nil {
		s.logger.Error("recording submission failed",
			zap.String("application_id", app.ID), zap.Error(err))
	}
}
