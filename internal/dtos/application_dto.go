package dtos

import "github.com/justsurfingit/Agentic-Auto-Apply/internal/models"

// ApplyRequest mirrors the multipart form fields of POST /api/apply.
// The resume file itself is handled separately by the upload path.
type ApplyRequest struct {
	JobURL       string `form:"jobUrl" binding:"required"`
	Rules        string `form:"rules"`
	Username     string `form:"username"`
	Password     string `form:"password"`
	PlatformName string `form:"platformName"`
	LoginURL     string `form:"loginUrl"`
}

// ApplyResponse carries the identifier the client polls with.
type ApplyResponse struct {
	ApplicationID string `json:"applicationId"`
}

// StatusResponse is the polling payload: current status plus the full
// (append-only) log trail.
type StatusResponse struct {
	Status string            `json:"status"`
	Logs   []models.LogEntry `json:"logs"`
}

// AgentTaskRequest is the wire payload of the run-task call to the
// external automation agent.
type AgentTaskRequest struct {
	URL          string `json:"url"`
	ResumeText   string `json:"resume_text"`
	ResumePath   string `json:"resume_path"`
	Rules        string `json:"rules"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	PlatformName string `json:"platform_name"`
	LoginURL     string `json:"login_url"`
}

// AgentTaskResult is the agent's terminal report. Success is signalled
// exclusively by Status == "completed"; any other (or missing) status
// counts as failure.
type AgentTaskResult struct {
	Status string `json:"status"`
	Result string `json:"result"`
	TaskID string `json:"task_id"`
}

// Completed reports whether the agent finished the task successfully.
func (r *AgentTaskResult) Completed() bool {
	return r != nil && r.Status == "completed"
}
