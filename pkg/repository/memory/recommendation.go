package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

type recommendationRepository struct {
	mu      sync.RWMutex
	records map[model.RecommendationID]*model.RecommendationRecord
}

func newRecommendationRepository() *recommendationRepository {
	return &recommendationRepository{
		records: make(map[model.RecommendationID]*model.RecommendationRecord),
	}
}

func copyRecord(r *model.RecommendationRecord) *model.RecommendationRecord {
	copied := *r
	if r.Programs != nil {
		copied.Programs = make([]model.ProgramMatch, len(r.Programs))
		copy(copied.Programs, r.Programs)
	}
	if r.Keywords != nil {
		copied.Keywords = make([]string, len(r.Keywords))
		copy(copied.Keywords, r.Keywords)
	}
	return &copied
}

func (r *recommendationRepository) Create(ctx context.Context, record *model.RecommendationRecord) (*model.RecommendationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyRecord(record)
	if created.ID == "" {
		created.ID = model.NewRecommendationID()
	}
	created.CreatedAt = time.Now().UTC()

	r.records[created.ID] = created
	return copyRecord(created), nil
}

func (r *recommendationRepository) List(ctx context.Context, memberID string, opts ...interfaces.ListRecommendationOption) ([]*model.RecommendationRecord, error) {
	cfg := interfaces.BuildListRecommendationConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.RecommendationRecord, 0)
	for _, record := range r.records {
		if record.MemberID != memberID {
			continue
		}
		if noteID := cfg.NoteID(); noteID != nil && record.NoteID != *noteID {
			continue
		}
		if start := cfg.StartDate(); start != nil && record.SessionDate.Before(*start) {
			continue
		}
		if end := cfg.EndDate(); end != nil && record.SessionDate.After(*end) {
			continue
		}
		result = append(result, copyRecord(record))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit := cfg.Limit(); limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
