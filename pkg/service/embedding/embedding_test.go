package embedding_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/service/embedding"
)

type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (m *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (m *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return m.generateEmbeddingFn(ctx, dimension, input)
}

func TestEmbedPinsDimension(t *testing.T) {
	ctx := context.Background()

	var requestedDim int
	svc := embedding.New(&mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			requestedDim = dimension
			out := make([][]float64, len(input))
			for i := range input {
				v := make([]float64, dimension)
				v[0] = 0.5
				out[i] = v
			}
			return out, nil
		},
	})

	vec, err := svc.Embed(ctx, "morning cooking session")
	gt.NoError(t, err).Required()
	gt.Value(t, requestedDim).Equal(model.EmbeddingDimension)
	gt.Array(t, vec).Length(model.EmbeddingDimension)
	gt.Value(t, vec[0]).Equal(float32(0.5))
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()

	svc := embedding.New(&mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return [][]float64{make([]float64, 128)}, nil
		},
	})

	_, err := svc.Embed(ctx, "text")
	gt.Value(t, err).NotNil()
}

func TestEmbedBatchRejectsCountMismatch(t *testing.T) {
	ctx := context.Background()

	svc := embedding.New(&mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return [][]float64{make([]float64, dimension)}, nil
		},
	})

	_, err := svc.EmbedBatch(ctx, []string{"one", "two"})
	gt.Value(t, err).NotNil()
}

func TestEmbedBatchRejectsEmptyInput(t *testing.T) {
	svc := embedding.New(&mockLLMClient{})
	_, err := svc.EmbedBatch(context.Background(), nil)
	gt.Value(t, err).NotNil()
}
