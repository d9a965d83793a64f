package interfaces

import (
	"context"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

// ProgramIndex defines the interface for the program catalog vector
// index. It is read-concurrently by recommendation requests and written
// only by the ingestion path.
type ProgramIndex interface {
	// Upsert inserts or replaces catalog entries, keyed by program ID
	Upsert(ctx context.Context, programs []*model.Program) error

	// Query performs vector similarity search and returns up to topK
	// candidates ordered by decreasing similarity. Scores are cosine
	// similarity in [-1, 1].
	Query(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error)

	// Filter returns up to limit programs whose text fields contain any
	// of the given keywords. This is the non-semantic fallback used when
	// no query embedding is available; results carry no scores.
	Filter(ctx context.Context, keywords []string, limit int) ([]*model.Program, error)

	// Stats describes the index dimension and vector count
	Stats(ctx context.Context) (*model.IndexStats, error)
}
