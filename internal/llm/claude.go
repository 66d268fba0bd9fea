package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sumedhk0/GitHubAnalyzer/internal/logger"
)

const (
	claudeAPIURL       = "https://api.anthropic.com/v1/messages"
	claudeAPIVersion   = "2023-06-01"
	claudeDefaultModel = "claude-sonnet-4-20250514"
	claudeMaxTokens    = 4096
)

// Claude implements Provider over the Anthropic Messages API.
type Claude struct {
	HTTPClient *http.Client
	APIURL     string

	apiKey string
	model  string
	logger *zap.Logger
}

// NewClaude builds a Claude provider; an empty model selects the default.
func NewClaude(apiKey, model string, log *zap.Logger) *Claude {
	if model == "" {
		model = claudeDefaultModel
	}
	return &Claude{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		APIURL:     claudeAPIURL,
		apiKey:     apiKey,
		model:      model,
		logger:     logger.WithProviderFields(log, "claude", model),
	}
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
	Error   *claudeError         `json:"error,omitempty"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeError struct {
	Message string `json:"message"`
}

// AnalyzeCommits sends one batch to the Messages API and parses the JSON
// analysis out of the text response.
func (c *Claude) AnalyzeCommits(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error) {
	c.logger.Debug("sending batch to claude",
		zap.Int("commits", len(req.Commits)),
		zap.Int("estimated_tokens", req.EstimateTokens()),
	)

	payload := claudeRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		System:    SystemPrompt(),
		Messages:  []claudeMessage{{Role: "user", Content: req.Prompt()}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal claude request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", claudeAPIVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("claude request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read claude response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("claude api error (%d): %s", resp.StatusCode, respBody)
	}

	var decoded claudeResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decode claude response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("claude api error: %s", decoded.Error.Message)
	}

	var text string
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, errors.New("empty response from claude")
	}

	c.logger.Debug("claude response received",
		zap.String("text", logger.TruncateForLog(text, 500)),
	)

	return ParseResult(text)
}

func (c *Claude) MaxContextTokens() int { return 200_000 }

func (c *Claude) Name() string { return "Claude" }
