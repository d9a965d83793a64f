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

// CreateNote stores a session note and eagerly vectorizes it so later
// history aggregations hit the embedding cache. A vectorization failure
// does not lose the note; the embedding is rebuilt on next aggregation.
func (uc *UseCases) CreateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	if note == nil || note.MemberID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "memberID is required")
	}
	if strings.TrimSpace(note.Summary) == "" && note.ActivityType == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "note needs a summary or activity type")
	}
	if note.SessionAt.IsZero() {
		note.SessionAt = time.Now().UTC()
	}

	created, err := uc.repo.Note().Create(ctx, note)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create note", goerr.V("memberID", note.MemberID))
	}

	emb, err := uc.vectorizer.Vectorize(ctx, created)
	if err != nil {
		logging.From(ctx).Warn("failed to vectorize new note",
			slog.String("noteID", string(created.ID)),
			slog.Any("error", err),
		)
		return created, nil
	}
	if err := uc.repo.Note().PutEmbedding(ctx, emb); err != nil {
		logging.From(ctx).Warn("failed to cache embedding for new note",
			slog.String("noteID", string(created.ID)),
			slog.Any("error", err),
		)
	}

	return created, nil
}
