package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModelName = "gemini-2.5-flash"
	generateTimeout  = 60 * time.Second
)

// TextGenerator produces model text for a system instruction and a user prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// GeminiService calls the Gemini API in JSON response mode
type GeminiService struct {
	genaiClient *genai.Client
	model       string
}

func NewGeminiService(apiKey, model string) (*GeminiService, error) {
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}

	return &GeminiService{
		genaiClient: genaiClient,
		model:       model,
	}, nil
}

// GenerateText asks the model for a JSON answer and returns the raw response text
func (g *GeminiService) GenerateText(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.4),
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	start := time.Now()
	result, err := g.genaiClient.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		slog.Error("Gemini request failed", "error", err, "model", g.model)
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from model")
	}

	slog.Info("Gemini response received", "model", g.model, "duration_ms", time.Since(start).Milliseconds(), "length", len(text))
	return text, nil
}
