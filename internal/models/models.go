package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application lifecycle statuses. Transitions are monotonic toward a
// terminal state: processing -> applied | failed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusApplied    = "applied"
	StatusFailed     = "failed"
)

// Submission audit outcomes.
const (
	SubmissionOK     = "OK"
	SubmissionFailed = "FAILED"
)

// IsTerminalStatus reports whether status is one of the two end states.
func IsTerminalStatus(status string) bool {
	return status == StatusApplied || status == StatusFailed
}

// LogEntry is a single human-readable progress line on an application.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// LogEntries is an append-only sequence of log entries, stored as a
// jsonb column. Entries are never removed, edited or reordered.
type LogEntries []LogEntry

func (l LogEntries) Value() (driver.Value, error) {
	if l == nil {
		l = LogEntries{}
	}
	return json.Marshal(l)
}

func (l *LogEntries) Scan(value interface{}) error {
	if value == nil {
		*l = LogEntries{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for log entries", value)
	}
}

// Credentials are the platform login details captured at apply time.
// The password never leaves the server in JSON responses.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"-"`
}

// Application is the unit of work representing one job-application attempt.
// Inputs (job URL, resume path, rules, credentials) are immutable after
// creation; only status, logs, task id and resume URL are mutated, and
// only through the record store's merge update.
type Application struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id"`
	JobURL      string      `gorm:"not null" json:"job_url"`
	ResumePath  string      `gorm:"not null" json:"resume_path"`
	ResumeURL   string      `json:"resume_url,omitempty"`
	Rules       string      `gorm:"type:text" json:"rules,omitempty"`
	Credentials Credentials `gorm:"embedded;embeddedPrefix:credential_" json:"-"`
	Status      string      `gorm:"default:'pending'" json:"status"`
	Logs        LogEntries  `gorm:"type:jsonb" json:"logs"`
	TaskID      string      `json:"task_id,omitempty"`
	UserID      string      `gorm:"index" json:"user_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier for records inserted into the
// persistent store. Fallback records get their id from the memory store,
// so this hook never runs for them.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// SubmissionRecord is the write-once audit entry created when the agent
// reports a successful submission. The unique index prevents duplicate
// success records for the same application.
type SubmissionRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"uniqueIndex:idx_user_application;not null" json:"user_id"`
	ApplicationID string    `gorm:"uniqueIndex:idx_user_application;not null" json:"application_id"`
	JobURL        string    `gorm:"not null" json:"job_url"`
	Platform      string    `gorm:"not null" json:"platform"`
	Status        string    `gorm:"not null" json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// Preferences are the user's job-search preferences, stored as jsonb.
type Preferences struct {
	ExpectedCTC  string `json:"expectedCtc,omitempty"`
	Location     string `json:"location,omitempty"`
	NoticePeriod string `json:"noticePeriod,omitempty"`
	RemoteOnly   bool   `json:"remoteOnly"`
	VisaStatus   string `json:"visaStatus,omitempty"`
}

func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		*p = Preferences{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type %T for preferences", value)
	}
}

// JSONMap holds free-form structured data (AI-processed applicant profile).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type %T for json map", value)
	}
}

// UserData is the user's profile: bio, stored resume and preferences,
// plus the structured applicant JSON produced by the AI service.
type UserData struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          string      `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio             string      `gorm:"type:text" json:"bio"`
	ResumePath      string      `json:"resume_path,omitempty"`
	ResumeURL       string      `json:"resume_url,omitempty"`
	Preferences     Preferences `gorm:"type:jsonb" json:"preferences"`
	AIProcessedData JSONMap     `gorm:"type:jsonb" json:"ai_processed_data"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// PlatformCredential stores one set of login credentials per job platform.
// A user can only have one credential row per platform name.
type PlatformCredential struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"uniqueIndex:idx_user_platform;not null" json:"user_id"`
	PlatformName string    `gorm:"uniqueIndex:idx_user_platform;not null" json:"platform_name"`
	LoginURL     string    `json:"login_url,omitempty"`
	Username     string    `gorm:"not null" json:"username"`
	Password     string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
