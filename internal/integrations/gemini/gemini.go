package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/models"
	"github.com/notetube/notetube/internal/utils"

	"google.golang.org/genai"
)

// Gemini service
type Service struct {
	config  *config.Config
	gemini  *genai.Client
	limiter *Limiter
}

// Configure safety settings to block none
var blockNone = genai.HarmBlockThresholdBlockNone
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: blockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: blockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: blockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: blockNone},
}

// Define the JSON schema for the response
var schema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {
			Type:        genai.TypeString,
			Description: "A short title for the notes",
		},
		"summary": {
			Type:        genai.TypeString,
			Description: "A one-paragraph summary of the video",
		},
		"notes": {
			Type:        genai.TypeString,
			Description: "The study notes in Markdown",
		},
	},
	Required: []string{"title", "summary", "notes"},
}

// Create new Gemini service
func New(ctx context.Context, config *config.Config, limiter *Limiter) (*Service, error) {
	// Configure new client
	gemini, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.GeminiAPIKey})
	return &Service{gemini: gemini, config: config, limiter: limiter}, err
}

// Exhausted reports whether the daily quota is already spent,
// letting callers skip expensive work upfront
func (s *Service) Exhausted(ctx context.Context) bool {
	return s.limiter.Exhausted(ctx)
}

// Generate content given a prompt
func (s *Service) GenerateContent(ctx context.Context, contents []*genai.Content) (*models.GeneratedNotes, error) {

	result, err := s.gemini.Models.GenerateContent(
		ctx,
		s.config.GeminiModel,
		contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			SafetySettings:   safetySettings,
			ResponseSchema:   schema,
		},
	)

	if err != nil {
		return nil, err
	}

	if len(result.Candidates) == 0 {
		return nil, &BlockedErr{Feedback: result.PromptFeedback}
	}

	var response models.GeneratedNotes
	if err := json.Unmarshal([]byte(result.Text()), &response); err != nil {
		return nil, fmt.Errorf("failed to parse Genai response to JSON: %w", err)
	}

	return &response, nil
}

// GenerateNotes builds the prompt from a transcript and generates study notes
func (s *Service) GenerateNotes(
	ctx context.Context,
	details *models.VideoDetails,
	transcript string,
) (*models.GeneratedNotes, error) {

	// Consume quota before touching the API
	if err := s.limiter.AcquireQuota(ctx); err != nil {
		return nil, err
	}

	transcript = utils.TruncateString(transcript, s.config.MaxTranscript)

	parts := []*genai.Part{

		genai.NewPartFromText(
			"Write structured study notes in Markdown from the video transcript below. " +
				"Use headings and bullet points, keep the wording faithful to the speaker, " +
				"and do not include timestamps. " +
				"Also provide a short title and a one-paragraph summary.",
		),

		genai.NewPartFromText(
			fmt.Sprintf(
				"Video title: %s\nChannel: %s",
				details.Title, details.ChannelTitle,
			),
		),

		genai.NewPartFromText(sanitizePrompt(transcript)),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	rc := &utils.RetryConfig{
		MaxRetries: 5,
		MaxJitter:  2 * time.Second,
		Delay:      time.Second,
	}

	return utils.Retry(
		ctx, rc,
		func() (*models.GeneratedNotes, error) {
			return s.GenerateContent(ctx, contents)
		},
	)
}
