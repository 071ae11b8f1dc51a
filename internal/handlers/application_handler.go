package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/handlers/middleware"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/services"
)

// ApplicationHandler serves the apply-intake and status-polling endpoints.
type ApplicationHandler struct {
	Apps          *services.ApplicationService
	Dispatch      *services.DispatchService
	Users         *services.UserService
	Credentials   *services.CredentialService
	UploadsDir    string
	PublicBaseURL string
	Logger        *zap.Logger
}

func NewApplicationHandler(
	apps *services.ApplicationService,
	dispatch *services.DispatchService,
	users *services.UserService,
	credentials *services.CredentialService,
	uploadsDir, publicBaseURL string,
	logger *zap.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		Apps:          apps,
		Dispatch:      dispatch,
		Users:         users,
		Credentials:   credentials,
		UploadsDir:    uploadsDir,
		PublicBaseURL: publicBaseURL,
		Logger:        logger,
	}
}

// Apply is the POST /api/apply endpoint. It creates the application
// record, kicks off the background dispatch and returns the identifier
// without waiting for any agent work.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dtos.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	userID := middleware.UserID(c)

	resumePath, resumeURL, err := h.resolveResume(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store resume: " + err.Error()})
		return
	}

	// Fall back to saved platform credentials when the form carries none.
	username, password := req.Username, req.Password
	loginURL := req.LoginURL
	if username == "" {
		if cred := h.Credentials.Lookup(userID, req.PlatformName); cred != nil {
			username, password = cred.Username, cred.Password
			if loginURL == "" {
				loginURL = cred.LoginURL
			}
		}
	}

	id, err := h.Apps.CreateApplication(c.Request.Context(), services.ApplicationInput{
		JobURL:     req.JobURL,
		ResumePath: resumePath,
		ResumeURL:  resumeURL,
		Rules:      req.Rules,
		Username:   username,
		Password:   password,
		UserID:     userID,
	})
	if errors.Is(err, services.ErrResumeRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resume is required. Please upload one or fill your profile."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application: " + err.Error()})
		return
	}

	h.Dispatch.Dispatch(id, req.PlatformName, loginURL)

	c.JSON(http.StatusAccepted, dtos.ApplyResponse{ApplicationID: id})
}

// Status is the GET /api/status/:id polling endpoint.
func (h *ApplicationHandler) Status(c *gin.Context) {
	status, err := h.Apps.ReadStatus(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// resolveResume saves an uploaded resume, or falls back to the one
// stored on the user's profile. Returning "" means no resume at all;
// CreateApplication turns that into the validation error.
func (h *ApplicationHandler) resolveResume(c *gin.Context, userID string) (path, publicURL string, err error) {
	file, ferr := c.FormFile("resume")
	if ferr != nil || file == nil {
		path, publicURL = h.Users.ProfileResumePath(userID)
		return path, publicURL, nil
	}
	return h.saveResume(c, file)
}

func (h *ApplicationHandler) saveResume(c *gin.Context, file *multipart.FileHeader) (path, publicURL string, err error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	dst := filepath.Join(h.UploadsDir, "resumes", name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", "", err
	}
	dst = filepath.ToSlash(dst)
	if h.PublicBaseURL != "" {
		publicURL = strings.TrimRight(h.PublicBaseURL, "/") + "/" + dst
	}
	return dst, publicURL, nil
}
