package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

const noHistoryRationale = "Not enough historical data available. Add more notes to get personalized recommendations."

// maxFocusAreas caps the distinct categories surfaced as focus areas.
const maxFocusAreas = 5

type AdaptiveInput struct {
	MemberID string
	Days     int
	TopK     int
}

type AdaptiveResult struct {
	Programs         []model.ProgramMatch   `json:"recommendations"`
	Trend            model.TrendSummary     `json:"trend"`
	FocusAreas       []string               `json:"focusAreas"`
	Rationale        string                 `json:"rationale"`
	NotesConsidered  int                    `json:"notesConsidered"`
	SkippedNotes     int                    `json:"skippedNotes,omitempty"`
	Partial          bool                   `json:"partial,omitempty"`
	LookbackDays     int                    `json:"lookbackDays"`
	RecommendationID model.RecommendationID `json:"recommendationId,omitempty"`
	SaveError        string                 `json:"saveError,omitempty"`
}

// Adaptive produces program recommendations from a member's recent
// history: the progress vector drives a semantic match, the trend and
// focus areas contextualize it, and the result is persisted best-effort
// as a recommendation record with no source note.
func (uc *UseCases) Adaptive(ctx context.Context, input *AdaptiveInput) (*AdaptiveResult, error) {
	if input == nil || input.MemberID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "memberID is required")
	}

	days := input.Days
	if days <= 0 {
		days = DefaultLookbackDays
	}
	topK := input.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	history, err := uc.AggregateHistory(ctx, input.MemberID, days)
	if err != nil {
		return nil, err
	}

	result := &AdaptiveResult{
		Programs:        []model.ProgramMatch{},
		Trend:           history.Trend,
		FocusAreas:      []string{},
		NotesConsidered: history.NotesConsidered,
		SkippedNotes:    history.SkippedNotes,
		Partial:         history.Partial,
		LookbackDays:    days,
	}

	if history.NotesConsidered == 0 {
		result.Rationale = noHistoryRationale
		return result, nil
	}

	programs, err := uc.MatchByVector(ctx, history.ProgressVector, topK)
	if err != nil {
		return nil, err
	}
	result.Programs = programs
	result.FocusAreas = focusAreas(programs)
	result.Rationale = uc.writeRationale(ctx, history, programs)

	uc.persistRecord(ctx, result, &model.RecommendationRecord{
		MemberID:    input.MemberID,
		SessionDate: time.Now().UTC(),
		Programs:    programs,
	})

	return result, nil
}

func (uc *UseCases) writeRationale(ctx context.Context, history *MemberHistory, programs []model.ProgramMatch) string {
	names := make([]string, 0, 5)
	for _, p := range programs {
		names = append(names, p.Name)
		if len(names) >= 5 {
			break
		}
	}

	return uc.rationale.Generate(ctx, &RationaleInput{
		TrendDirection: history.Trend.Direction.String(),
		Activities:     history.RecentActivities,
		ProgramNames:   names,
	})
}

// persistRecord saves the recommendation record without failing the
// request. A save failure is reported in the result instead.
func (uc *UseCases) persistRecord(ctx context.Context, result *AdaptiveResult, record *model.RecommendationRecord) {
	if len(record.Programs) == 0 {
		return
	}

	saved, err := uc.repo.Recommendation().Create(ctx, record)
	if err != nil {
		logging.From(ctx).Warn("failed to persist recommendation record",
			slog.String("memberID", record.MemberID),
			slog.Any("error", err),
		)
		result.SaveError = err.Error()
		return
	}
	result.RecommendationID = saved.ID
}

func focusAreas(programs []model.ProgramMatch) []string {
	seen := make(map[string]struct{})
	areas := make([]string, 0, maxFocusAreas)
	for _, p := range programs {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		areas = append(areas, p.Category)
		if len(areas) >= maxFocusAreas {
			break
		}
	}
	return areas
}
