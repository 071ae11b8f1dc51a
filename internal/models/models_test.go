package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusApplied))
	assert.True(t, IsTerminalStatus(StatusFailed))
	assert.False(t, IsTerminalStatus(StatusPending))
	assert.False(t, IsTerminalStatus(StatusProcessing))
	assert.False(t, IsTerminalStatus(""))
}

func TestLogEntriesScanValue(t *testing.T) {
	entries := LogEntries{
		{Timestamp: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), Message: "Application received."},
		{Timestamp: time.Date(2026, 1, 2, 15, 4, 6, 0, time.UTC), Message: "Extracting resume text from PDF..."},
	}

	value, err := entries.Value()
	require.NoError(t, err)

	var decoded LogEntries
	require.NoError(t, decoded.Scan(value))
	require.Len(t, decoded, 2)
	assert.Equal(t, entries[0].Message, decoded[0].Message)
	assert.True(t, entries[1].Timestamp.Equal(decoded[1].Timestamp))
}

func TestLogEntriesScanNil(t *testing.T) {
	var decoded LogEntries
	require.NoError(t, decoded.Scan(nil))
	assert.Empty(t, decoded)
}

func TestJSONMapScanValue(t *testing.T) {
	m := JSONMap{"skills": []interface{}{"go", "sql"}, "years": float64(3)}

	value, err := m.Value()
	require.NoError(t, err)

	var decoded JSONMap
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, m, decoded)
}
