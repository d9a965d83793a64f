package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

type noteDoc struct {
	ID              model.NoteID    `firestore:"ID"`
	MemberID        string          `firestore:"MemberID"`
	SessionAt       time.Time       `firestore:"SessionAt"`
	ActivityType    string          `firestore:"ActivityType"`
	Mood            string          `firestore:"Mood"`
	Participation   string          `firestore:"Participation"`
	PromptsRequired string          `firestore:"PromptsRequired"`
	Summary         string          `firestore:"Summary"`
	FollowUps       []string        `firestore:"FollowUps"`
	Medications     []medicationDoc `firestore:"Medications"`
	CreatedAt       time.Time       `firestore:"CreatedAt"`
}

type medicationDoc struct {
	Name   string `firestore:"Name"`
	Dose   string `firestore:"Dose"`
	Route  string `firestore:"Route"`
	Time   string `firestore:"Time"`
	Status string `firestore:"Status"`
}

// embeddingDoc stores the cached note vector as firestore.Vector32 so it
// round-trips through the same codec as program vectors.
type embeddingDoc struct {
	NoteID      model.NoteID       `firestore:"NoteID"`
	MemberID    string             `firestore:"MemberID"`
	SessionAt   time.Time          `firestore:"SessionAt"`
	Vector      firestore.Vector32 `firestore:"Vector,omitempty"`
	MoodScore   float64            `firestore:"MoodScore"`
	PromptScore float64            `firestore:"PromptScore"`
	PartScore   float64            `firestore:"ParticipationScore"`
	CreatedAt   time.Time          `firestore:"CreatedAt"`
}

func toNoteDoc(n *model.Note) *noteDoc {
	doc := &noteDoc{
		ID:              n.ID,
		MemberID:        n.MemberID,
		SessionAt:       n.SessionAt,
		ActivityType:    n.ActivityType,
		Mood:            n.Mood,
		Participation:   n.Participation,
		PromptsRequired: n.PromptsRequired,
		Summary:         n.Summary,
		FollowUps:       n.FollowUps,
		CreatedAt:       n.CreatedAt,
	}
	for _, m := range n.Medications {
		doc.Medications = append(doc.Medications, medicationDoc(m))
	}
	return doc
}

func fromNoteDoc(d *noteDoc) *model.Note {
	n := &model.Note{
		ID:              d.ID,
		MemberID:        d.MemberID,
		SessionAt:       d.SessionAt,
		ActivityType:    d.ActivityType,
		Mood:            d.Mood,
		Participation:   d.Participation,
		PromptsRequired: d.PromptsRequired,
		Summary:         d.Summary,
		FollowUps:       d.FollowUps,
		CreatedAt:       d.CreatedAt,
	}
	for _, m := range d.Medications {
		n.Medications = append(n.Medications, model.Medication(m))
	}
	return n
}

type noteRepository struct {
	client *firestore.Client
}

func newNoteRepository(client *firestore.Client) *noteRepository {
	return &noteRepository{client: client}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	created := *note
	if created.ID == "" {
		created.ID = model.NewNoteID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(collectionNotes).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toNoteDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create note", goerr.V("noteID", created.ID))
	}

	return &created, nil
}

func (r *noteRepository) Get(ctx context.Context, noteID model.NoteID) (*model.Note, error) {
	doc, err := r.client.Collection(collectionNotes).Doc(string(noteID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("noteID", noteID))
		}
		return nil, goerr.Wrap(err, "failed to get note", goerr.V("noteID", noteID))
	}

	var d noteDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal note", goerr.V("noteID", noteID))
	}

	return fromNoteDoc(&d), nil
}

func (r *noteRepository) List(ctx context.Context, memberID string, since time.Time) ([]*model.Note, error) {
	iter := r.client.Collection(collectionNotes).
		Where("MemberID", "==", memberID).
		Where("SessionAt", ">=", since).
		OrderBy("SessionAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	notes := make([]*model.Note, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notes", goerr.V("memberID", memberID))
		}

		var d noteDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal note")
		}

		notes = append(notes, fromNoteDoc(&d))
	}

	return notes, nil
}

func (r *noteRepository) GetEmbedding(ctx context.Context, noteID model.NoteID) (*model.NoteEmbedding, error) {
	doc, err := r.client.Collection(collectionNoteEmbeddings).Doc(string(noteID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "note embedding not found", goerr.V("noteID", noteID))
		}
		return nil, goerr.Wrap(err, "failed to get note embedding", goerr.V("noteID", noteID))
	}

	var d embeddingDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal note embedding", goerr.V("noteID", noteID))
	}

	return &model.NoteEmbedding{
		NoteID:    d.NoteID,
		MemberID:  d.MemberID,
		SessionAt: d.SessionAt,
		Vector:    []float32(d.Vector),
		Scores: model.TrendScores{
			Mood:          d.MoodScore,
			Prompt:        d.PromptScore,
			Participation: d.PartScore,
		},
		CreatedAt: d.CreatedAt,
	}, nil
}

func (r *noteRepository) PutEmbedding(ctx context.Context, embedding *model.NoteEmbedding) error {
	if embedding.NoteID == "" {
		return goerr.New("note ID is required for embedding")
	}

	createdAt := embedding.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	doc := &embeddingDoc{
		NoteID:      embedding.NoteID,
		MemberID:    embedding.MemberID,
		SessionAt:   embedding.SessionAt,
		MoodScore:   embedding.Scores.Mood,
		PromptScore: embedding.Scores.Prompt,
		PartScore:   embedding.Scores.Participation,
		CreatedAt:   createdAt,
	}
	if len(embedding.Vector) > 0 {
		doc.Vector = firestore.Vector32(embedding.Vector)
	}

	docRef := r.client.Collection(collectionNoteEmbeddings).Doc(string(embedding.NoteID))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put note embedding", goerr.V("noteID", embedding.NoteID))
	}

	return nil
}
