// Package vectorizer turns a session note into its embedding record: a
// text projection of the note, the embedding vector for that text, and
// the numeric trend scores derived from the note's categorical fields.
package vectorizer

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/domain/types"
)

// Embedder is the embedding provider the vectorizer depends on.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Service struct {
	embedder Embedder
}

func New(embedder Embedder) *Service {
	return &Service{embedder: embedder}
}

// EmbeddingText builds the text projection of a note that gets
// embedded. Empty fields are omitted so the text stays semantic-dense.
func EmbeddingText(note *model.Note) string {
	parts := make([]string, 0, 7)

	if note.ActivityType != "" {
		parts = append(parts, "Activity: "+note.ActivityType)
	}
	if note.Summary != "" {
		parts = append(parts, note.Summary)
	}
	if note.Mood != "" {
		parts = append(parts, "Mood: "+note.Mood)
	}
	if note.Participation != "" {
		parts = append(parts, "Participation: "+note.Participation)
	}
	if note.PromptsRequired != "" {
		parts = append(parts, "Prompts required: "+note.PromptsRequired)
	}
	if len(note.FollowUps) > 0 {
		parts = append(parts, "Follow-ups: "+strings.Join(note.FollowUps, ", "))
	}
	if names := medicationNames(note.Medications); len(names) > 0 {
		parts = append(parts, "Medications: "+strings.Join(names, ", "))
	}

	return strings.Join(parts, ". ")
}

func medicationNames(medications []model.Medication) []string {
	names := make([]string, 0, len(medications))
	for _, m := range medications {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// Scores maps the note's categorical fields to numeric trend scores.
func Scores(note *model.Note) model.TrendScores {
	return model.TrendScores{
		Mood:          types.MoodScore(note.Mood),
		Prompt:        types.PromptScore(note.PromptsRequired),
		Participation: types.ParticipationScore(note.Participation),
	}
}

// Vectorize produces the full embedding record for a note. Embedding
// failures propagate to the caller; a note never gets a zero vector in
// place of a real one.
func (s *Service) Vectorize(ctx context.Context, note *model.Note) (*model.NoteEmbedding, error) {
	text := EmbeddingText(note)
	if text == "" {
		return nil, goerr.New("note has no content to embed", goerr.V("noteID", note.ID))
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to vectorize note", goerr.V("noteID", note.ID))
	}

	return &model.NoteEmbedding{
		NoteID:    note.ID,
		MemberID:  note.MemberID,
		SessionAt: note.SessionAt,
		Vector:    vector,
		Scores:    Scores(note),
		CreatedAt: time.Now().UTC(),
	}, nil
}
