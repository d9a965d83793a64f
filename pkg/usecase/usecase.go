package usecase

import (
	"context"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

const (
	// DefaultLookbackDays is how far back the history aggregation reads
	// notes when the caller does not specify a window.
	DefaultLookbackDays = 21

	// DefaultTopK is the number of programs returned by a match when
	// the caller does not specify a count.
	DefaultTopK = 10

	// keywordSearchLimit is how many programs the keyword path fetches
	// before truncating to topK.
	keywordSearchLimit = 15
)

// Embedder provides embedding vectors for arbitrary text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Vectorizer produces the embedding record for a note.
type Vectorizer interface {
	Vectorize(ctx context.Context, note *model.Note) (*model.NoteEmbedding, error)
}

// KeywordExtractor extracts program-matching keywords from note text.
type KeywordExtractor interface {
	Extract(ctx context.Context, noteText string) []string
}

// RationaleWriter generates the explanation attached to recommendations.
type RationaleWriter interface {
	Generate(ctx context.Context, input *RationaleInput) string
}

// RationaleInput mirrors rationale.Input without importing the service
// package, so the writer can be stubbed independently.
type RationaleInput struct {
	TrendDirection string
	Activities     []string
	ProgramNames   []string
}

type UseCases struct {
	repo       interfaces.Repository
	embedder   Embedder
	vectorizer Vectorizer
	keywords   KeywordExtractor
	rationale  RationaleWriter
}

type Option func(*UseCases)

func WithEmbedder(embedder Embedder) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

func WithVectorizer(vectorizer Vectorizer) Option {
	return func(uc *UseCases) {
		uc.vectorizer = vectorizer
	}
}

func WithKeywordExtractor(extractor KeywordExtractor) Option {
	return func(uc *UseCases) {
		uc.keywords = extractor
	}
}

func WithRationaleWriter(writer RationaleWriter) Option {
	return func(uc *UseCases) {
		uc.rationale = writer
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
