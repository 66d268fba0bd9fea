package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/sumedhk0/GitHubAnalyzer/internal/logger"
)

const geminiDefaultModel = "gemini-2.5-pro"

// Gemini implements Provider over the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGemini builds a Gemini provider; an empty model selects the default.
func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = geminiDefaultModel
	}

	return &Gemini{client: client, model: model, logger: logger.WithProviderFields(log, "gemini", model)}, nil
}

// AnalyzeCommits sends one batch to Gemini with the fixed system
// instruction and parses the JSON analysis out of the candidates' text.
func (g *Gemini) AnalyzeCommits(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error) {
	g.logger.Debug("sending batch to gemini",
		zap.Int("commits", len(req.Commits)),
		zap.Int("estimated_tokens", req.EstimateTokens()),
	)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt()}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt()), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return nil, errors.New("gemini api returned empty response")
	}

	g.logger.Debug("gemini response received",
		zap.String("text", logger.TruncateForLog(text, 500)),
	)

	return ParseResult(text)
}

func (g *Gemini) MaxContextTokens() int { return 1_000_000 }

func (g *Gemini) Name() string { return "Gemini" }
