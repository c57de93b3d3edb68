package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/streamfetch-go/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured
var ErrMissingAPIKey = errors.New("metadata api key not configured")

// GeminiGenerator implements TextGenerator on the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	config *domain.MetadataConfig
	logger *zap.Logger
}

// NewGeminiGenerator creates a Gemini client from the metadata configuration
func NewGeminiGenerator(ctx context.Context, config *domain.MetadataConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiGenerator{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Generate sends prompt to the configured model, with Google Search
// grounding when enabled, and returns the response text
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var genConfig *genai.GenerateContentConfig
	if g.config.SearchGrounding {
		genConfig = &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		}
	}

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	g.logger.Debug("Gemini response",
		zap.String("model", g.config.Model),
		zap.Int("length", len(text)))

	return text, nil
}
