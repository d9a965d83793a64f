package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

// StoredRecommendations lists a member's persisted recommendation
// records, newest first.
func (uc *UseCases) StoredRecommendations(ctx context.Context, memberID string, opts ...interfaces.ListRecommendationOption) ([]*model.RecommendationRecord, error) {
	if memberID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "memberID is required")
	}

	records, err := uc.repo.Recommendation().List(ctx, memberID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recommendation records", goerr.V("memberID", memberID))
	}
	return records, nil
}

// StoredPrograms flattens a member's recommendation records into a
// deduplicated program list, keeping the first occurrence of each
// program across the newest-first records.
func (uc *UseCases) StoredPrograms(ctx context.Context, memberID string, opts ...interfaces.ListRecommendationOption) ([]model.ProgramMatch, error) {
	records, err := uc.StoredRecommendations(ctx, memberID, opts...)
	if err != nil {
		return nil, err
	}
	return model.FlattenPrograms(records), nil
}

// IndexStats reports the program index dimension and entry count.
func (uc *UseCases) IndexStats(ctx context.Context) (*model.IndexStats, error) {
	stats, err := uc.repo.ProgramIndex().Stats(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get index stats")
	}
	return stats, nil
}
