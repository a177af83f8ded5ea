package gemini

import (
	"context"
	"fmt"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/rag/llm"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewGeminiClient(ctx context.Context, modelName string, apikey string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return nil, err
	}

	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}, nil
}

func (c *llmClient) GenerateStructured(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, "application/json")
}

func (c *llmClient) GenerateText(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, "")
}

func (c *llmClient) generate(ctx context.Context, systemInstruction string, prompt string, mimeType string) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}
	if mimeType != "" {
		contentConfig.ResponseMIMEType = mimeType
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), contentConfig)
	if err != nil {
		log.Error("Error generating content:", "error", err)
		return "", err
	}
	if result == nil {
		return "", fmt.Errorf("empty generation response")
	}
	return result.Text(), nil
}
