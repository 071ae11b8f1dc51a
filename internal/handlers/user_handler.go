package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/handlers/middleware"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/services"
)

// UserHandler serves the profile endpoints, including the AI-assisted
// profile processing.
type UserHandler struct {
	Users   *services.UserService
	AI      *services.AIService
	Resumes *services.ResumeService
	Apply   *ApplicationHandler // reuses resume upload handling
	Logger  *zap.Logger
}

func NewUserHandler(users *services.UserService, ai *services.AIService, resumes *services.ResumeService, apply *ApplicationHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		Users:   users,
		AI:      ai,
		Resumes: resumes,
		Apply:   apply,
		Logger:  logger,
	}
}

// GetProfile is GET /api/user/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	data, err := h.Users.GetOrCreateProfile(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// UpdateProfile is POST /api/user/profile: multipart with a "data" JSON
// field plus an optional "resume" upload.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dtos.ProfileUpdateRequest
	if raw := c.PostForm("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile data: " + err.Error()})
			return
		}
	}

	var resumePath, resumeURL string
	if file, err := c.FormFile("resume"); err == nil && file != nil {
		resumePath, resumeURL, err = h.Apply.saveResume(c, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store resume: " + err.Error()})
			return
		}
	}

	data, err := h.Users.UpdateProfile(middleware.UserID(c), &req, resumePath, resumeURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// ProcessProfile is POST /api/user/process: runs the stored profile and
// resume through the AI service and persists the structured result.
func (h *UserHandler) ProcessProfile(c *gin.Context) {
	if h.AI == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI processing is not configured"})
		return
	}

	userID := middleware.UserID(c)
	data, err := h.Users.GetOrCreateProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resumeText := ""
	if data.ResumePath != "" {
		text, err := h.Resumes.ExtractText(data.ResumePath)
		if err != nil {
			h.Logger.Warn("resume extraction failed for profile processing",
				zap.String("user_id", userID), zap.Error(err))
		} else {
			resumeText = text
		}
	}

	processed, err := h.AI.ProcessProfile(c.Request.Context(), data, resumeText)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI processing failed: " + err.Error()})
		return
	}

	data, err = h.Users.SaveProcessedData(userID, processed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}
