package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
)

func TestAgentClientRunTask(t *testing.T) {
	var received dtos.AgentTaskRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/run-task", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(dtos.AgentTaskResult{
			Status: "completed",
			Result: "Application submitted",
			TaskID: "task-9",
		})
	}))
	defer srv.Close()

	client := NewAgentClient(srv.URL+"/", time.Minute)
	result, err := client.RunTask(context.Background(), &dtos.AgentTaskRequest{
		URL:          "https://jobs.example.com/123",
		ResumeText:   "resume body",
		PlatformName: "LinkedIn",
	})
	require.NoError(t, err)
	assert.True(t, result.Completed())
	assert.Equal(t, "task-9", result.TaskID)
	assert.Equal(t, "https://jobs.example.com/123", received.URL)
	assert.Equal(t, "LinkedIn", received.PlatformName)
}

func TestAgentClientNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewAgentClient(srv.URL, time.Minute)
	_, err := client.RunTask(context.Background(), &dtos.AgentTaskRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "agent busy")
}

func TestAgentClientUnreachable(t *testing.T) {
	client := NewAgentClient("http://127.0.0.1:1", time.Second)
	_, err := client.RunTask(context.Background(), &dtos.AgentTaskRequest{})
	assert.Error(t, err)
}
