package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/domain/types"
	"github.com/carecompass-dev/carecompass/pkg/utils/async"
	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

// recentWindowMax caps how many trailing notes count as "recent" when
// classifying the trend.
const recentWindowMax = 7

// MemberHistory is the aggregated view of a member's recent notes: the
// progress vector, the trend classification, and how much history went
// into them.
type MemberHistory struct {
	ProgressVector   []float32
	Trend            model.TrendSummary
	NotesConsidered  int
	SkippedNotes     int
	Partial          bool
	RecentActivities []string
}

// AggregateHistory builds a member's history from notes in the lookback
// window. Cached embeddings are reused; notes without one are vectorized
// on the fly and the result is cached in the background. A note whose
// vectorization fails is skipped and counted, never zero-filled.
func (uc *UseCases) AggregateHistory(ctx context.Context, memberID string, days int) (*MemberHistory, error) {
	if memberID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "memberID is required")
	}
	if days <= 0 {
		days = DefaultLookbackDays
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	notes, err := uc.repo.Note().List(ctx, memberID, since)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notes", goerr.V("memberID", memberID))
	}

	history := &MemberHistory{
		ProgressVector: make([]float32, model.EmbeddingDimension),
	}
	if len(notes) == 0 {
		history.Trend.Direction = types.TrendStable
		return history, nil
	}

	logger := logging.From(ctx)

	embeddings := make([]*model.NoteEmbedding, 0, len(notes))
	for _, note := range notes {
		if ctx.Err() != nil {
			history.Partial = true
			break
		}

		emb := uc.noteEmbedding(ctx, note)
		if emb == nil {
			history.SkippedNotes++
			logger.Warn("skipping note without embedding",
				slog.String("noteID", string(note.ID)),
				slog.String("memberID", memberID),
			)
			continue
		}
		embeddings = append(embeddings, emb)
	}

	history.NotesConsidered = len(embeddings)
	history.RecentActivities = recentActivities(notes, 5)

	vectors := make([][]float32, 0, len(embeddings))
	for _, emb := range embeddings {
		if len(emb.Vector) > 0 {
			vectors = append(vectors, emb.Vector)
		}
	}
	history.ProgressVector = model.MeanVector(vectors)
	history.Trend = classifyTrend(embeddings)

	return history, nil
}

// noteEmbedding returns the cached embedding for a note, vectorizing it
// fresh on a cache miss. The fresh result is persisted asynchronously so
// the request path does not wait on the write.
func (uc *UseCases) noteEmbedding(ctx context.Context, note *model.Note) *model.NoteEmbedding {
	if cached, err := uc.repo.Note().GetEmbedding(ctx, note.ID); err == nil {
		return cached
	}

	emb, err := uc.vectorizer.Vectorize(ctx, note)
	if err != nil {
		logging.From(ctx).Warn("failed to vectorize note",
			slog.String("noteID", string(note.ID)),
			slog.Any("error", err),
		)
		return nil
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := uc.repo.Note().PutEmbedding(ctx, emb); err != nil {
			return goerr.Wrap(err, "failed to cache note embedding", goerr.V("noteID", emb.NoteID))
		}
		return nil
	})

	return emb
}

func recentActivities(notes []*model.Note, limit int) []string {
	start := len(notes) - limit
	if start < 0 {
		start = 0
	}

	activities := make([]string, 0, limit)
	for _, n := range notes[start:] {
		if n.ActivityType != "" {
			activities = append(activities, n.ActivityType)
		}
	}
	return activities
}

// classifyTrend compares the recent half of the window against the
// older half. Improving requires both mood and participation strictly
// higher; declining requires neither higher and mood strictly lower.
// Everything else, including windows too short to split, is stable.
func classifyTrend(embeddings []*model.NoteEmbedding) model.TrendSummary {
	summary := model.TrendSummary{Direction: types.TrendStable}
	if len(embeddings) == 0 {
		return summary
	}

	var moodSum, promptSum, partSum float64
	for _, e := range embeddings {
		moodSum += e.Scores.Mood
		promptSum += e.Scores.Prompt
		partSum += e.Scores.Participation
	}
	count := float64(len(embeddings))
	summary.AvgMood = moodSum / count
	summary.AvgPrompt = promptSum / count
	summary.AvgParticipation = partSum / count

	recentCount := len(embeddings) / 2
	if recentCount > recentWindowMax {
		recentCount = recentWindowMax
	}
	olderCount := len(embeddings) - recentCount
	if recentCount == 0 || olderCount == 0 {
		return summary
	}

	older := embeddings[:olderCount]
	recent := embeddings[len(embeddings)-recentCount:]

	var recentMood, recentPart, olderMood, olderPart float64
	for _, e := range recent {
		recentMood += e.Scores.Mood
		recentPart += e.Scores.Participation
	}
	for _, e := range older {
		olderMood += e.Scores.Mood
		olderPart += e.Scores.Participation
	}
	recentMood /= float64(recentCount)
	recentPart /= float64(recentCount)
	olderMood /= float64(olderCount)
	olderPart /= float64(olderCount)

	moodImproving := recentMood > olderMood
	partImproving := recentPart > olderPart

	switch {
	case moodImproving && partImproving:
		summary.Direction = types.TrendImproving
	case !moodImproving && !partImproving && recentMood < olderMood:
		summary.Direction = types.TrendDeclining
	}

	return summary
}
