package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const volumePrompt = `You are a beverage volume estimation expert. Your task is to estimate the volume of the drink described below in milliliters.

REQUIREMENTS:
- Estimate the volume as accurately as possible
- Consider standard serving sizes (a glass is ~250 ml, a mug ~350 ml, a small bottle ~500 ml)
- Return ONLY a number representing the volume in milliliters
- Do not include any text, units, or explanations
- Round to the nearest milliliter

Example response format:
350

Drink description: %s`

// Estimates outside this range are treated as model failures rather than
// logged as intake.
const (
	minEstimateML = 10
	maxEstimateML = 5000
)

// BeverageService estimates drink volumes from free-text descriptions using
// Gemini, so users can log "a large latte" without knowing the ml.
type BeverageService struct {
	client *genai.Client
}

func NewBeverageService(apiKey string) (*BeverageService, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &BeverageService{client: client}, nil
}

var _ domain.BeverageEstimator = (*BeverageService)(nil)

// EstimateVolumeML asks the model for a number-only volume estimate and
// bounds-checks the answer.
func (s *BeverageService) EstimateVolumeML(ctx context.Context, description string) (float64, error) {
	model := s.client.GenerativeModel("gemini-1.5-flash")

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(volumePrompt, description)))
	if err != nil {
		return 0, apperrors.NewExternalAPIError(err, "gemini")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("empty response"), "gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("unexpected response part"), "gemini")
	}

	volume, err := strconv.ParseFloat(strings.TrimSpace(string(text)), 64)
	if err != nil {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("failed to parse volume %q: %w", string(text), err), "gemini")
	}
	if volume < minEstimateML || volume > maxEstimateML {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("estimate %.0f ml out of range", volume), "gemini")
	}

	return volume, nil
}
