package interfaces

import (
	"context"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

// RecommendationRepository defines the interface for persisted
// recommendation records.
type RecommendationRepository interface {
	// Create stores a new recommendation record. Records are immutable.
	Create(ctx context.Context, record *model.RecommendationRecord) (*model.RecommendationRecord, error)

	// List retrieves records for a member, newest-first, honoring the
	// given filter options.
	List(ctx context.Context, memberID string, opts ...ListRecommendationOption) ([]*model.RecommendationRecord, error)
}
