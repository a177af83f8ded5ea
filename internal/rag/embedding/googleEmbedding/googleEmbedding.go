package googleEmbedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/rag/embedding"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
	"google.golang.org/genai"
)

const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

func NewGoogleEmbedder(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil, err
	}

	logger.Info("Google Embedding client created", "model", modelName)
	return &client{
		genAi:     c,
		model:     modelName,
		dimension: config.EmbeddingOutputDimensionality,
		logger:    logger,
	}, nil
}

func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	// Empty strings are rejected by the API. Remember where they were so the
	// caller's positions never shift.
	kept := make([]int, 0, len(texts))
	payload := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		kept = append(kept, i)
		payload = append(payload, text)
	}

	aligned := make([][]float32, len(texts))
	if len(payload) == 0 {
		log.Debug("no embeddable texts in batch")
		return aligned, nil
	}

	res, err := c.doCall(ctx, getContent(payload), taskTypeDocument)
	if err != nil || res == nil {
		if doRetry(err, log) {
			time.Sleep(5 * time.Second)
			log.Debug("Retrying in 5 seconds")
			res, err = c.doCall(ctx, getContent(payload), taskTypeDocument)
		}
		if err != nil || res == nil {
			log.Error("Error getting Embeddings from Google", "error", err)
			return nil, fmt.Errorf("document embedding call failed: %w", err)
		}
	}

	if len(res.Embeddings) != len(payload) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(payload), len(res.Embeddings))
	}

	for j, r := range res.Embeddings {
		aligned[kept[j]] = r.Values
	}
	return aligned, nil
}

func (c *client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query text")
	}

	res, err := c.doCall(ctx, genai.Text(query), taskTypeQuery)
	if err != nil {
		log.Error("Error getting query Embedding from Google", "error", err)
		return nil, err
	}
	if len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             taskType,
	})
}
