package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

type noteRepository struct {
	mu         sync.RWMutex
	notes      map[model.NoteID]*model.Note
	embeddings map[model.NoteID]*model.NoteEmbedding
}

func newNoteRepository() *noteRepository {
	return &noteRepository{
		notes:      make(map[model.NoteID]*model.Note),
		embeddings: make(map[model.NoteID]*model.NoteEmbedding),
	}
}

func copyNote(n *model.Note) *model.Note {
	copied := *n
	if n.FollowUps != nil {
		copied.FollowUps = make([]string, len(n.FollowUps))
		copy(copied.FollowUps, n.FollowUps)
	}
	if n.Medications != nil {
		copied.Medications = make([]model.Medication, len(n.Medications))
		copy(copied.Medications, n.Medications)
	}
	return &copied
}

func copyEmbedding(e *model.NoteEmbedding) *model.NoteEmbedding {
	copied := *e
	if e.Vector != nil {
		copied.Vector = make([]float32, len(e.Vector))
		copy(copied.Vector, e.Vector)
	}
	return &copied
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyNote(note)
	if created.ID == "" {
		created.ID = model.NewNoteID()
	}
	created.CreatedAt = time.Now().UTC()

	r.notes[created.ID] = created
	return copyNote(created), nil
}

func (r *noteRepository) Get(ctx context.Context, noteID model.NoteID) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[noteID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("noteID", noteID))
	}

	return copyNote(note), nil
}

func (r *noteRepository) List(ctx context.Context, memberID string, since time.Time) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Note, 0)
	for _, n := range r.notes {
		if n.MemberID != memberID {
			continue
		}
		if n.SessionAt.Before(since) {
			continue
		}
		result = append(result, copyNote(n))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SessionAt.Before(result[j].SessionAt)
	})

	return result, nil
}

func (r *noteRepository) GetEmbedding(ctx context.Context, noteID model.NoteID) (*model.NoteEmbedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	embedding, exists := r.embeddings[noteID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "note embedding not found", goerr.V("noteID", noteID))
	}

	return copyEmbedding(embedding), nil
}

func (r *noteRepository) PutEmbedding(ctx context.Context, embedding *model.NoteEmbedding) error {
	if embedding.NoteID == "" {
		return goerr.New("note ID is required for embedding")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyEmbedding(embedding)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.embeddings[stored.NoteID] = stored

	return nil
}
