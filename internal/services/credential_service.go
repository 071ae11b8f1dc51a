package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/dtos"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

// CredentialService stores one set of login credentials per platform
// and user. Like profiles, credentials require the persistent store.
type CredentialService struct {
	DB *gorm.DB
}

func NewCredentialService(db *gorm.DB) *CredentialService {
	return &CredentialService{DB: db}
}

func (s *CredentialService) List(userID string) ([]models.PlatformCredential, error) {
	if s.DB == nil {
		return nil, errors.New("credential storage unavailable")
	}
	var creds []models.PlatformCredential
	if err := s.DB.Where("user_id = ?", userID).Find(&creds).Error; err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}
	return creds, nil
}

// Save upserts on (userId, platformName).
func (s *CredentialService) Save(userID string, req *dtos.CredentialRequest) (*models.PlatformCredential, error) {
	if s.DB == nil {
		return nil, errors.New("credential storage unavailable")
	}
	var cred models.PlatformCredential
	err := s.DB.Where(models.PlatformCredential{UserID: userID, PlatformName: req.PlatformName}).
		Assign(models.PlatformCredential{
			LoginURL: req.LoginURL,
			Username: req.Username,
			Password: req.Password,
		}).
		FirstOrCreate(&cred).Error
	if err != nil {
		return nil, fmt.Errorf("saving credential: %w", err)
	}
	return &cred, nil
}

func (s *CredentialService) Delete(userID string, id uint) error {
	if s.DB == nil {
		return errors.New("credential storage unavailable")
	}
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.PlatformCredential{}).Error; err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	return nil
}

// Lookup returns the saved credential for a platform, or nil when none
// exists. The apply path uses it when the form carries no credentials.
func (s *CredentialService) Lookup(userID, platformName string) *models.PlatformCredential {
	if s.DB == nil || platformName == "" {
		return nil
	}
	var cred models.PlatformCredential
	err := s.DB.Where("user_id = ? AND platform_name = ?", userID, platformName).First(&cred).Error
	if err != nil {
		return nil
	}
	return &cred
}
