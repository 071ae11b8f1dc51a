package store

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

func newMockedPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewPostgresStore(gdb), mock
}

func applicationColumns() []string {
	return []string{
		"id", "job_url", "resume_path", "resume_url", "rules",
		"credential_username", "credential_password",
		"status", "logs", "task_id", "user_id", "created_at",
	}
}

func applicationRow(id, status string) []driver.Value {
	return []driver.Value{
		id, "https://x.com/job/1", "uploads/resumes/test.pdf", "", "",
		"", "",
		status, []byte(`[{"timestamp":"2026-01-02T15:04:05Z","message":"Application received."}]`),
		"", "user-1", time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}
}

func TestPostgresStoreGet(t *testing.T) {
	s, mock := newMockedPostgresStore(t)

	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WithArgs("a1b2c3d4", 1).
		WillReturnRows(sqlmock.NewRows(applicationColumns()).AddRow(applicationRow("a1b2c3d4", models.StatusProcessing)...))

	app, err := s.Get(context.Background(), "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4", app.ID)
	assert.Equal(t, models.StatusProcessing, app.Status)
	require.Len(t, app.Logs, 1)
	assert.Equal(t, "Application received.", app.Logs[0].Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetNotFound(t *testing.T) {
	s, mock := newMockedPostgresStore(t)

	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows(applicationColumns()))

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpdateReadMergeSave(t *testing.T) {
	s, mock := newMockedPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(sqlmock.NewRows(applicationColumns()).AddRow(applicationRow("a1b2c3d4", models.StatusProcessing)...))
	mock.ExpectExec(`UPDATE "applications"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status := models.StatusApplied
	err := s.Update(context.Background(), "a1b2c3d4", RecordUpdate{
		Status: &status,
		Logs:   []models.LogEntry{{Timestamp: time.Now().UTC(), Message: "Agent finished: SUCCESS - ok..."}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpdateNotFoundRollsBack(t *testing.T) {
	s, mock := newMockedPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(sqlmock.NewRows(applicationColumns()))
	mock.ExpectRollback()

	err := s.Update(context.Background(), "missing", RecordUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
