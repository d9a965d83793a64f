package interfaces

import (
	"context"
	"time"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

// NoteRepository defines the interface for structured note persistence
// and the note-embedding cache.
type NoteRepository interface {
	// Create stores a new note. Notes are immutable once created.
	Create(ctx context.Context, note *model.Note) (*model.Note, error)

	// Get retrieves a note by ID
	Get(ctx context.Context, noteID model.NoteID) (*model.Note, error)

	// List retrieves all notes for a member with session time at or
	// after since, ordered by session time ascending.
	List(ctx context.Context, memberID string, since time.Time) ([]*model.Note, error)

	// GetEmbedding retrieves the cached embedding for a note.
	// Returns ErrNotFound if no embedding has been cached.
	GetEmbedding(ctx context.Context, noteID model.NoteID) (*model.NoteEmbedding, error)

	// PutEmbedding caches an embedding for a note. Writes are idempotent
	// upserts keyed by note ID; last write wins.
	PutEmbedding(ctx context.Context, embedding *model.NoteEmbedding) error
}
