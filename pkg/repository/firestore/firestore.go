package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

const (
	collectionNotes           = "notes"
	collectionNoteEmbeddings  = "note_embeddings"
	collectionRecommendations = "recommendations"
	collectionPrograms        = "programs"
)

// Firestore is the Firestore-backed Repository implementation. The
// programs collection doubles as the vector index via FindNearest.
type Firestore struct {
	client         *firestore.Client
	note           *noteRepository
	recommendation *recommendationRepository
	programIndex   *programIndex
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	return &Firestore{
		client:         client,
		note:           newNoteRepository(client),
		recommendation: newRecommendationRepository(client),
		programIndex:   newProgramIndex(client),
	}, nil
}

func (f *Firestore) Note() interfaces.NoteRepository {
	return f.note
}

func (f *Firestore) Recommendation() interfaces.RecommendationRepository {
	return f.recommendation
}

func (f *Firestore) ProgramIndex() interfaces.ProgramIndex {
	return f.programIndex
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
