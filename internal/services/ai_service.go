package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

const profilePrompt = `
You are an expert recruitment assistant. Convert the following user information and resume text into a structured JSON format for an automated job application bot.

User Preferences:
- Expected CTC: %s
- Location: %s
- Notice Period: %s
- Remote Only: %s
- Bio: %s

Resume Content:
%s

Output valid JSON only. Do not wrap the output in markdown code blocks. Structure:
{
  "full_name": "",
  "email": "",
  "phone": "",
  "current_role": "",
  "skills": [],
  "total_experience_years": 0,
  "expected_salary": "",
  "notice_period": "",
  "preferred_location": "",
  "work_mode": "remote/onsite/hybrid",
  "summary": "Short bio for forms",
  "visa_status": "inferred or Not specified",
  "reason_for_change": "inferred or professional default",
  "top_strengths": []
}

If a piece of information is missing, set the value to null. Do not hallucinate or guess.
`

// AIService turns a profile plus resume text into the structured
// applicant JSON the automation agent fills forms from.
type AIService struct {
	client llms.Model
	logger *zap.Logger
}

// NewAIService initializes the Gemini client. An empty API key returns
// a nil service; the profile-processing endpoint then reports the
// feature as unavailable instead of the process failing at startup.
func NewAIService(ctx context.Context, apiKey, model string, logger *zap.Logger) (*AIService, error) {
	if apiKey == "" {
		return nil, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &AIService{client: llm, logger: logger}, nil
}

// ProcessProfile generates the structured applicant document.
func (s *AIService) ProcessProfile(ctx context.Context, user *models.UserData, resumeText string) (models.JSONMap, error) {
	remote := "No"
	if user.Preferences.RemoteOnly {
		remote = "Yes"
	}
	prompt := fmt.Sprintf(profilePrompt,
		orDefault(user.Preferences.ExpectedCTC),
		orDefault(user.Preferences.Location),
		orDefault(user.Preferences.NoticePeriod),
		remote,
		orDefault(user.Bio),
		resumeText,
	)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.client, prompt)
	if err != nil {
		return nil, fmt.Errorf("AI processing failed: %w", err)
	}

	var processed models.JSONMap
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &processed); err != nil {
		s.logger.Warn("AI returned non-JSON output", zap.String("raw", resp))
		return nil, fmt.Errorf("parsing AI output: %w", err)
	}
	return processed, nil
}

func orDefault(v string) string {
	if v == "" {
		return "Not specified"
	}
	return v
}

// stripCodeFence removes a markdown code fence the model sometimes
// wraps around its JSON despite the prompt.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
