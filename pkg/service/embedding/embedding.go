// Package embedding adapts an LLM client into a dimension-pinned
// embedding provider. Every vector it returns has exactly
// model.EmbeddingDimension elements; anything else is an error, never a
// silently degraded vector.
package embedding

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

type Service struct {
	llmClient gollem.LLMClient
}

func New(llmClient gollem.LLMClient) *Service {
	return &Service{llmClient: llmClient}
}

// Embed generates the embedding vector for a single text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embedding vectors for multiple texts in one call.
// The result has one vector per input text, in input order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, goerr.New("no texts to embed")
	}

	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding",
			goerr.V("count", len(texts)),
		)
	}

	if len(embeddings) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("expected", len(texts)),
			goerr.V("actual", len(embeddings)),
		)
	}

	vectors := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		if len(emb) != model.EmbeddingDimension {
			return nil, goerr.New("unexpected embedding dimension",
				goerr.V("expected", model.EmbeddingDimension),
				goerr.V("actual", len(emb)),
				goerr.V("index", i),
			)
		}

		vec := make([]float32, len(emb))
		for j, v := range emb {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}

	return vectors, nil
}
