// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// ModelBackend abstracts the generative text API so tests can supply a
// mock and deployments can switch providers.
type ModelBackend interface {
	// Generate sends one prompt and returns the raw model text, which may
	// be wrapped in Markdown code fences.
	Generate(ctx context.Context, prompt string) (string, error)

	// Model identifies the backing model for provenance records.
	Model() string
}

// geminiAPIBase is the Gemini API root. Package-level var for test
// substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiBackend calls the Gemini generateContent API.
type GeminiBackend struct {
	APIKey string
	Name   string
	Client *http.Client
}

// geminiRequest is the request body for generateContent.
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *geminiGenCfg   `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenCfg struct {
	Temperature float64 `json:"temperature"`
}

// geminiResponse is the response body from generateContent.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// NewGeminiBackend builds a Gemini backend from the AI settings.
func NewGeminiBackend(cfg types.AIConfig) *GeminiBackend {
	return &GeminiBackend{APIKey: cfg.APIKey, Name: cfg.Model}
}

// Generate sends the prompt to Gemini and concatenates the text parts of
// the first candidate.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenCfg{Temperature: 0.2},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, g.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	if len(gResp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, part := range gResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in Gemini response")
	}
	return sb.String(), nil
}

// Model returns the Gemini model identifier.
func (g *GeminiBackend) Model() string {
	return g.Name
}
