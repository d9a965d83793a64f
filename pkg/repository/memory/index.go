package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

type programIndex struct {
	mu       sync.RWMutex
	programs map[string]*model.Program
}

func newProgramIndex() *programIndex {
	return &programIndex{
		programs: make(map[string]*model.Program),
	}
}

func copyProgram(p *model.Program) *model.Program {
	copied := *p
	if p.Keywords != nil {
		copied.Keywords = make([]string, len(p.Keywords))
		copy(copied.Keywords, p.Keywords)
	}
	if p.LifeSkills != nil {
		copied.LifeSkills = make([]string, len(p.LifeSkills))
		copy(copied.LifeSkills, p.LifeSkills)
	}
	if p.Vector != nil {
		copied.Vector = make([]float32, len(p.Vector))
		copy(copied.Vector, p.Vector)
	}
	return &copied
}

func (x *programIndex) Upsert(ctx context.Context, programs []*model.Program) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	now := time.Now().UTC()
	for _, p := range programs {
		stored := copyProgram(p)
		if existing, ok := x.programs[stored.ID]; ok {
			stored.CreatedAt = existing.CreatedAt
		} else if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		stored.UpdatedAt = now
		x.programs[stored.ID] = stored
	}

	return nil
}

func (x *programIndex) Query(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	candidates := make([]*model.ProgramCandidate, 0)
	for _, p := range x.programs {
		if len(p.Vector) == 0 {
			continue
		}
		candidates = append(candidates, &model.ProgramCandidate{
			Program: copyProgram(p),
			Score:   cosineSimilarity(vector, p.Vector),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if topK < len(candidates) {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

func (x *programIndex) Filter(ctx context.Context, keywords []string, limit int) ([]*model.Program, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	result := make([]*model.Program, 0)
	for _, p := range x.programs {
		text := p.SearchText()
		for _, kw := range keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				result = append(result, copyProgram(p))
				break
			}
		}
	}

	// Stable order for callers that re-score and truncate
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (x *programIndex) Stats(ctx context.Context) (*model.IndexStats, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	count := 0
	for _, p := range x.programs {
		if len(p.Vector) > 0 {
			count++
		}
	}

	return &model.IndexStats{
		Dimension: model.EmbeddingDimension,
		Count:     count,
	}, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
