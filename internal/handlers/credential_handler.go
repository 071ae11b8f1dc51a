package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/handlers/middleware"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/services"
)

// CredentialHandler serves the per-platform saved credentials.
type CredentialHandler struct {
	Credentials *services.CredentialService
}

func NewCredentialHandler(credentials *services.CredentialService) *CredentialHandler {
	return &CredentialHandler{Credentials: credentials}
}

func (h *CredentialHandler) List(c *gin.Context) {
	creds, err := h.Credentials.List(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, creds)
}

func (h *CredentialHandler) Save(c *gin.Context) {
	var req dtos.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	cred, err := h.Credentials.Save(middleware.UserID(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cred)
}

func (h *CredentialHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential id"})
		return
	}
	if err := h.Credentials.Delete(middleware.UserID(c), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credential removed"})
}
