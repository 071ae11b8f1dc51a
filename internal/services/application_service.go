package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/store"
)

// ErrResumeRequired is returned when neither an uploaded file nor a
// profile-stored resume path is available at application intake.
var ErrResumeRequired = errors.New("resume is required")

// ErrNotFound aliases the store's sentinel so handlers only import the
// service layer.
var ErrNotFound = store.ErrNotFound

// ApplicationInput captures the immutable inputs of one apply request.
type ApplicationInput struct {
	JobURL     string
	ResumePath string
	ResumeURL  string
	Rules      string
	Username   string
	Password   string
	UserID     string
}

// ApplicationService is the lifecycle tracker: it owns the state machine
// for one application and wraps the record store with domain operations.
type ApplicationService struct {
	store  store.RecordStore
	logger *zap.Logger
}

func NewApplicationService(recordStore store.RecordStore, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		store:  recordStore,
		logger: logger,
	}
}

// CreateApplication validates the input, persists the initial record
// with status processing and one log line, and returns the identifier
// immediately. The caller never waits for agent completion.
func (s *ApplicationService) CreateApplication(ctx context.Context, in ApplicationInput) (string, error) {
	if in.ResumePath == "" {
		return "", ErrResumeRequired
	}

	now := time.Now().UTC()
	app := &models.Application{
		JobURL:     in.JobURL,
		ResumePath: in.ResumePath,
		ResumeURL:  in.ResumeURL,
		Rules:      in.Rules,
		Credentials: models.Credentials{
			Username: in.Username,
			Password: in.Password,
		},
		Status: models.StatusProcessing,
		Logs: models.LogEntries{
			{Timestamp: now, Message: "Application received. Preparing automation agent..."},
		},
		UserID:    in.UserID,
		CreatedAt: now,
	}

	id, err := s.store.Create(ctx, app)
	if err != nil {
		return "", err
	}
	s.logger.Info("application created",
		zap.String("id", id),
		zap.String("job_url", in.JobURL),
		zap.String("user_id", in.UserID))
	return id, nil
}

// GetApplication loads the full record.
func (s *ApplicationService) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return s.store.Get(ctx, id)
}

// ReadStatus serves the polling endpoint.
func (s *ApplicationService) ReadStatus(ctx context.Context, id string) (*dtos.StatusResponse, error) {
	app, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dtos.StatusResponse{
		Status: app.Status,
		Logs:   app.Logs,
	}, nil
}

// AppendLog adds one progress line to the application's log trail.
func (s *ApplicationService) AppendLog(ctx context.Context, id, message string) {
	s.store.Update(ctx, id, store.RecordUpdate{
		Logs: []models.LogEntry{{Timestamp: time.Now().UTC(), Message: message}},
	})
}

// UpdateStatus merges a status transition and an accompanying log line
// in a single store update. A transition that would move a terminal
// record back to a non-terminal state is dropped, though the log line
// is still appended. Callers are not supposed to send one, so warn.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, status, message string) {
	update := store.RecordUpdate{Status: &status}
	if message != "" {
		update.Logs = []models.LogEntry{{Timestamp: time.Now().UTC(), Message: message}}
	}

	if !models.IsTerminalStatus(status) {
		if current, err := s.store.Get(ctx, id); err == nil && models.IsTerminalStatus(current.Status) {
			s.logger.Warn("dropping status regression on terminal application",
				zap.String("id", id),
				zap.String("current", current.Status),
				zap.String("requested", status))
			update.Status = nil
		}
	}

	s.store.Update(ctx, id, update)
}

// SetTaskID records the external agent's correlation id.
func (s *ApplicationService) SetTaskID(ctx context.Context, id, taskID string) {
	s.store.Update(ctx, id, store.RecordUpdate{TaskID: &taskID})
}

// SetResumeURL records the publicly reachable resume location.
func (s *ApplicationService) SetResumeURL(ctx context.Context, id, resumeURL string) {
	s.store.Update(ctx, id, store.RecordUpdate{ResumeURL: &resumeURL})
}
