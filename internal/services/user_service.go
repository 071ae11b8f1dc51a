package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

// UserService manages user profiles. Profiles live only in Postgres;
// when the database is down the profile endpoints fail and the apply
// path simply treats the profile resume as unavailable.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetOrCreateProfile fetches the user's profile, creating an empty one
// on first access.
func (s *UserService) GetOrCreateProfile(userID string) (*models.UserData, error) {
	if s.DB == nil {
		return nil, errors.New("profile storage unavailable")
	}
	var data models.UserData
	err := s.DB.Where(models.UserData{UserID: userID}).FirstOrCreate(&data).Error
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return &data, nil
}

// ProfileResumePath returns the resume stored on the user's profile, or
// "" when there is none (or the profile store is unreachable).
func (s *UserService) ProfileResumePath(userID string) (path, publicURL string) {
	if s.DB == nil {
		return "", ""
	}
	var data models.UserData
	if err := s.DB.Where("user_id = ?", userID).First(&data).Error; err != nil {
		return "", ""
	}
	return data.ResumePath, data.ResumeURL
}

// UpdateProfile merges the request into the stored profile. resumePath
// and resumeURL are set only when a new file was uploaded.
func (s *UserService) UpdateProfile(userID string, req *dtos.ProfileUpdateRequest, resumePath, resumeURL string) (*models.UserData, error) {
	data, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	if req != nil {
		if req.Bio != "" {
			data.Bio = req.Bio
		}
		if req.Preferences != nil {
			data.Preferences = *req.Preferences
		}
	}
	if resumePath != "" {
		data.ResumePath = resumePath
		data.ResumeURL = resumeURL
	}
	data.UpdatedAt = time.Now().UTC()

	if err := s.DB.Save(data).Error; err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return data, nil
}

// SaveProcessedData stores the AI-generated applicant document.
func (s *UserService) SaveProcessedData(userID string, processed models.JSONMap) (*models.UserData, error) {
	data, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}
	data.AIProcessedData = processed
	data.UpdatedAt = time.Now().UTC()
	if err := s.DB.Save(data).Error; err != nil {
		return nil, fmt.Errorf("saving processed profile: %w", err)
	}
	return data, nil
}
