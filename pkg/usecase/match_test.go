package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/repository/memory"
	"github.com/carecompass-dev/carecompass/pkg/usecase"
)

type stubIndex struct {
	queryFn  func(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error)
	filterFn func(ctx context.Context, keywords []string, limit int) ([]*model.Program, error)
}

func (s *stubIndex) Upsert(ctx context.Context, programs []*model.Program) error {
	return nil
}

func (s *stubIndex) Query(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error) {
	return s.queryFn(ctx, vector, topK)
}

func (s *stubIndex) Filter(ctx context.Context, keywords []string, limit int) ([]*model.Program, error) {
	return s.filterFn(ctx, keywords, limit)
}

func (s *stubIndex) Stats(ctx context.Context) (*model.IndexStats, error) {
	return &model.IndexStats{Dimension: model.EmbeddingDimension}, nil
}

// stubRepo overrides the program index of an in-memory repository.
type stubRepo struct {
	interfaces.Repository
	index interfaces.ProgramIndex
}

func (r *stubRepo) ProgramIndex() interfaces.ProgramIndex {
	return r.index
}

func candidate(id, name string, score float64) *model.ProgramCandidate {
	return &model.ProgramCandidate{
		Program: &model.Program{ID: id, Name: name, Category: "General"},
		Score:   score,
	}
}

func nonZeroVector() []float32 {
	v := make([]float32, model.EmbeddingDimension)
	v[0] = 1
	return v
}

func TestMatchByVectorDeduplicatesAndRanks(t *testing.T) {
	repo := &stubRepo{
		Repository: memory.New(),
		index: &stubIndex{
			queryFn: func(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error) {
				return []*model.ProgramCandidate{
					candidate("a", "Program A", 0.9),
					candidate("a", "Program A", 0.5),
					candidate("b", "Program B", 0.7),
				}, nil
			},
		},
	}
	uc := usecase.New(repo)

	matches, err := uc.MatchByVector(context.Background(), nonZeroVector(), 10)
	gt.NoError(t, err).Required()

	gt.Array(t, matches).Length(2)
	gt.Value(t, matches[0].ProgramID).Equal("a")
	gt.Value(t, matches[0].Similarity).Equal(0.9)
	gt.Value(t, matches[1].ProgramID).Equal("b")
	gt.Value(t, matches[1].Similarity).Equal(0.7)
}

func TestMatchByVectorDropsUnnamedAndClamps(t *testing.T) {
	repo := &stubRepo{
		Repository: memory.New(),
		index: &stubIndex{
			queryFn: func(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error) {
				return []*model.ProgramCandidate{
					candidate("hot", "Too Similar", 1.2),
					candidate("anon", "", 0.95),
					candidate("cold", "Dissimilar", -0.3),
				}, nil
			},
		},
	}
	uc := usecase.New(repo)

	matches, err := uc.MatchByVector(context.Background(), nonZeroVector(), 10)
	gt.NoError(t, err).Required()

	gt.Array(t, matches).Length(2)
	gt.Value(t, matches[0].ProgramID).Equal("hot")
	gt.Value(t, matches[0].Similarity).Equal(1.0)
	gt.Value(t, matches[1].ProgramID).Equal("cold")
	gt.Value(t, matches[1].Similarity).Equal(0.0)
}

func TestMatchByVectorZeroVectorShortCircuits(t *testing.T) {
	repo := &stubRepo{
		Repository: memory.New(),
		index: &stubIndex{
			queryFn: func(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error) {
				t.Fatal("index must not be queried for zero vector")
				return nil, nil
			},
		},
	}
	uc := usecase.New(repo)

	matches, err := uc.MatchByVector(context.Background(), make([]float32, model.EmbeddingDimension), 10)
	gt.NoError(t, err).Required()
	gt.Array(t, matches).Length(0)
}

func TestMatchByVectorTruncatesToTopK(t *testing.T) {
	repo := &stubRepo{
		Repository: memory.New(),
		index: &stubIndex{
			queryFn: func(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error) {
				// index is asked for twice topK
				gt.Value(t, topK).Equal(4)
				return []*model.ProgramCandidate{
					candidate("a", "A", 0.9),
					candidate("b", "B", 0.8),
					candidate("c", "C", 0.7),
				}, nil
			},
		},
	}
	uc := usecase.New(repo)

	matches, err := uc.MatchByVector(context.Background(), nonZeroVector(), 2)
	gt.NoError(t, err).Required()
	gt.Array(t, matches).Length(2)
}

func TestMatchByKeywordsFallsBackToFilter(t *testing.T) {
	repo := &stubRepo{
		Repository: memory.New(),
		index: &stubIndex{
			filterFn: func(ctx context.Context, keywords []string, limit int) ([]*model.Program, error) {
				return []*model.Program{
					{ID: "p1", Name: "Cooking Basics", Description: "cooking and kitchen skills", Keywords: []string{"cooking", "kitchen"}},
					{ID: "p2", Name: "Art Class", Description: "painting", Keywords: []string{"art"}},
				}, nil
			},
		},
	}
	uc := usecase.New(repo, usecase.WithEmbedder(&mockEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return nil, goerr.New("embedding provider down")
		},
	}))

	matches, err := uc.MatchByKeywords(context.Background(), []string{"cooking", "kitchen"}, 10)
	gt.NoError(t, err).Required()

	gt.Array(t, matches).Length(2)
	gt.Value(t, matches[0].ProgramID).Equal("p1")
	gt.Value(t, matches[0].Similarity).Equal(1.0) // 2 of 2 keywords matched
	gt.Value(t, matches[1].ProgramID).Equal("p2")
	gt.Value(t, matches[1].Similarity).Equal(0.1) // floored
}

func TestMatchByKeywordsEmptyInput(t *testing.T) {
	uc := usecase.New(&stubRepo{Repository: memory.New(), index: &stubIndex{}})

	matches, err := uc.MatchByKeywords(context.Background(), nil, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, matches).Length(0)
}
