package dtos

import "github.com/justsurfingit/Agentic-Auto-Apply/internal/models"

// ProfileUpdateRequest is the JSON document carried in the "data" form
// field of POST /api/user/profile. Zero values mean "leave unchanged".
type ProfileUpdateRequest struct {
	Bio         string              `json:"bio"`
	Preferences *models.Preferences `json:"preferences"`
}

// CredentialRequest is the body of POST /api/credentials.
type CredentialRequest struct {
	PlatformName string `json:"platformName" binding:"required"`
	LoginURL     string `json:"loginUrl"`
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
}
