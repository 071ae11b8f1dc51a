package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

// MemoryStore is the process-scoped fallback used while the persistent
// store is unreachable. All access goes through the mutex; merges are
// applied atomically per call.
type MemoryStore struct {
	mu          sync.RWMutex
	apps        map[string]*models.Application
	submissions []models.SubmissionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		apps: make(map[string]*models.Application),
	}
}

// Create inserts the record under a locally unique identifier derived
// from the monotonic clock and tagged with the fallback prefix.
func (s *MemoryStore) Create(ctx context.Context, app *models.Application) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := FallbackIDPrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
	for _, exists := s.apps[id]; exists; _, exists = s.apps[id] {
		id = FallbackIDPrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	app.ID = id
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	stored := cloneApplication(app)
	s.apps[id] = stored
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneApplication(app), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, update RecordUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return ErrNotFound
	}
	mergeInto(app, update)
	return nil
}

func (s *MemoryStore) RecordSubmission(ctx context.Context, rec *models.SubmissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	// Mirror the persistent store's unique (userId, applicationId) index.
	for _, existing := range s.submissions {
		if existing.UserID == rec.UserID && existing.ApplicationID == rec.ApplicationID {
			return nil
		}
	}
	s.submissions = append(s.submissions, *rec)
	return nil
}

// Submissions returns a snapshot of the recorded audit entries.
func (s *MemoryStore) Submissions() []models.SubmissionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SubmissionRecord, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// cloneApplication copies the record so callers never share the log
// slice with the store's own copy.
func cloneApplication(app *models.Application) *models.Application {
	clone := *app
	clone.Logs = make(models.LogEntries, len(app.Logs))
	copy(clone.Logs, app.Logs)
	return &clone
}
