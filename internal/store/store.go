package store

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/metrics"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

// ErrNotFound is returned when a requested application record does not exist.
var ErrNotFound = errors.New("application not found")

// FallbackIDPrefix tags identifiers generated by the in-memory store.
// The prefix routes every later operation on that record back to the
// memory store, regardless of how connectivity changes afterwards.
const FallbackIDPrefix = "mem_"

// RecordUpdate is a partial update merged into an existing record.
// Logs are appended to the stored sequence; the scalar fields are
// overwritten only when non-nil.
type RecordUpdate struct {
	Logs      []models.LogEntry
	Status    *string
	TaskID    *string
	ResumeURL *string
}

// RecordStore is the single read/update contract over both backing stores.
type RecordStore interface {
	Create(ctx context.Context, app *models.Application) (string, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Update(ctx context.Context, id string, update RecordUpdate) error
}

// SubmissionStore records the write-once audit entry for a successful
// submission.
type SubmissionStore interface {
	RecordSubmission(ctx context.Context, rec *models.SubmissionRecord) error
}

// mergeInto applies a RecordUpdate to an application in place. Both
// stores funnel their updates through this so merge semantics cannot
// drift between them.
func mergeInto(app *models.Application, update RecordUpdate) {
	if len(update.Logs) > 0 {
		app.Logs = append(app.Logs, update.Logs...)
	}
	if update.Status != nil {
		app.Status = *update.Status
	}
	if update.TaskID != nil {
		app.TaskID = *update.TaskID
	}
	if update.ResumeURL != nil {
		app.ResumeURL = *update.ResumeURL
	}
}

// Router presents one RecordStore over the persistent store and the
// in-memory fallback. Creation picks a store by current connectivity;
// every later call routes by the identifier's prefix first, so a record
// lives in exactly one store for its whole lifetime.
type Router struct {
	persistent RecordStore
	fallback   RecordStore
	subs       SubmissionStore // persistent submissions, nil when never connected
	memSubs    SubmissionStore
	connected  func() bool
	logger     *zap.Logger
}

// NewRouter wires the two stores behind the connectivity probe. The
// persistent store (and its submission store) may be nil when the
// database was unreachable at startup.
func NewRouter(persistent *PostgresStore, fallback *MemoryStore, connected func() bool, logger *zap.Logger) *Router {
	r := &Router{
		fallback:  fallback,
		memSubs:   fallback,
		connected: connected,
		logger:    logger,
	}
	if persistent != nil {
		r.persistent = persistent
		r.subs = persistent
	}
	return r
}

func (r *Router) persistentReachable() bool {
	return r.persistent != nil && r.connected()
}

// Create inserts the record into the persistent store when it is
// reachable, otherwise into the in-memory fallback. A failed persistent
// insert degrades to the fallback as well; the record then carries a
// fallback-tagged id and stays in memory for good.
func (r *Router) Create(ctx context.Context, app *models.Application) (string, error) {
	if r.persistentReachable() {
		id, err := r.persistent.Create(ctx, app)
		if err == nil {
			metrics.ApplicationsCreated.WithLabelValues("persistent").Inc()
			return id, nil
		}
		r.logger.Warn("persistent create failed, falling back to memory store", zap.Error(err))
		app.ID = ""
	}
	id, err := r.fallback.Create(ctx, app)
	if err == nil {
		metrics.ApplicationsCreated.WithLabelValues("memory").Inc()
	}
	return id, err
}

// Get routes by id prefix: fallback-tagged ids go to the memory store,
// everything else to the persistent store when connected. A
// persistent-looking id while disconnected has no defined recovery and
// reads as not found.
func (r *Router) Get(ctx context.Context, id string) (*models.Application, error) {
	if strings.HasPrefix(id, FallbackIDPrefix) {
		return r.fallback.Get(ctx, id)
	}
	if !r.persistentReachable() {
		r.logger.Warn("persistent store unreachable for read", zap.String("id", id))
		return nil, ErrNotFound
	}
	return r.persistent.Get(ctx, id)
}

// Update routes like Get. Failures are logged, not raised: the caller
// is usually the detached dispatch path, which must never crash over a
// missing update.
func (r *Router) Update(ctx context.Context, id string, update RecordUpdate) error {
	var err error
	if strings.HasPrefix(id, FallbackIDPrefix) {
		err = r.fallback.Update(ctx, id, update)
	} else if r.persistentReachable() {
		err = r.persistent.Update(ctx, id, update)
	} else {
		err = ErrNotFound
	}
	if err != nil {
		r.logger.Error("record update failed", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// RecordSubmission writes the audit entry next to the application it
// belongs to: fallback applications audit in memory, persistent ones in
// Postgres.
func (r *Router) RecordSubmission(ctx context.Context, rec *models.SubmissionRecord) error {
	if strings.HasPrefix(rec.ApplicationID, FallbackIDPrefix) || r.subs == nil || !r.connected() {
		return r.memSubs.RecordSubmission(ctx, rec)
	}
	return r.subs.RecordSubmission(ctx, rec)
}
