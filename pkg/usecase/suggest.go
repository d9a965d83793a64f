package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

type SuggestInput struct {
	Transcript  string
	Summary     string
	MemberID    string
	NoteID      model.NoteID
	SessionDate time.Time
	TopK        int
}

type SuggestResult struct {
	Programs         []model.ProgramMatch   `json:"programs"`
	Keywords         []string               `json:"keywords"`
	RecommendationID model.RecommendationID `json:"recommendationId,omitempty"`
	SaveError        string                 `json:"saveError,omitempty"`
}

// Suggest matches programs against a single note's text. Keywords are
// extracted first, then matched semantically with the keyword filter as
// degraded fallback. If a member is given, the result is persisted
// best-effort and linked to the source note.
func (uc *UseCases) Suggest(ctx context.Context, input *SuggestInput) (*SuggestResult, error) {
	if input == nil || strings.TrimSpace(input.Transcript) == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "transcript is required")
	}

	topK := input.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	fullText := input.Transcript
	if input.Summary != "" {
		fullText += "\n\nSummary: " + input.Summary
	}

	kws := uc.keywords.Extract(ctx, fullText)
	result := &SuggestResult{
		Programs: []model.ProgramMatch{},
		Keywords: kws,
	}
	if len(kws) == 0 {
		logging.From(ctx).Warn("no keywords extracted, returning empty suggestions")
		return result, nil
	}

	programs, err := uc.MatchByKeywords(ctx, kws, topK)
	if err != nil {
		return nil, err
	}
	result.Programs = programs

	switch {
	case input.MemberID == "":
		logging.From(ctx).Warn("no memberID provided, suggestions will not be persisted")
	case len(programs) == 0:
		// nothing to save
	default:
		sessionDate := input.SessionDate
		if sessionDate.IsZero() {
			sessionDate = time.Now().UTC()
		}

		saved, err := uc.repo.Recommendation().Create(ctx, &model.RecommendationRecord{
			MemberID:    input.MemberID,
			NoteID:      input.NoteID,
			SessionDate: sessionDate,
			Programs:    programs,
			Keywords:    kws,
		})
		if err != nil {
			logging.From(ctx).Warn("failed to persist suggestion record",
				slog.String("memberID", input.MemberID),
				slog.Any("error", err),
			)
			result.SaveError = err.Error()
		} else {
			result.RecommendationID = saved.ID
		}
	}

	return result, nil
}
