package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

type recommendationDoc struct {
	ID          model.RecommendationID `firestore:"ID"`
	MemberID    string                 `firestore:"MemberID"`
	NoteID      model.NoteID           `firestore:"NoteID"`
	SessionDate time.Time              `firestore:"SessionDate"`
	Programs    []programMatchDoc      `firestore:"Programs"`
	Keywords    []string               `firestore:"Keywords"`
	CreatedAt   time.Time              `firestore:"CreatedAt"`
}

type programMatchDoc struct {
	ProgramID   string   `firestore:"ProgramID"`
	Category    string   `firestore:"Category"`
	Name        string   `firestore:"Name"`
	Description string   `firestore:"Description"`
	Link        string   `firestore:"Link"`
	LifeSkills  []string `firestore:"LifeSkills"`
	Similarity  float64  `firestore:"Similarity"`
}

func toRecommendationDoc(r *model.RecommendationRecord) *recommendationDoc {
	doc := &recommendationDoc{
		ID:          r.ID,
		MemberID:    r.MemberID,
		NoteID:      r.NoteID,
		SessionDate: r.SessionDate,
		Keywords:    r.Keywords,
		CreatedAt:   r.CreatedAt,
	}
	for _, p := range r.Programs {
		doc.Programs = append(doc.Programs, programMatchDoc(p))
	}
	return doc
}

func fromRecommendationDoc(d *recommendationDoc) *model.RecommendationRecord {
	r := &model.RecommendationRecord{
		ID:          d.ID,
		MemberID:    d.MemberID,
		NoteID:      d.NoteID,
		SessionDate: d.SessionDate,
		Keywords:    d.Keywords,
		CreatedAt:   d.CreatedAt,
	}
	for _, p := range d.Programs {
		r.Programs = append(r.Programs, model.ProgramMatch(p))
	}
	return r
}

type recommendationRepository struct {
	client *firestore.Client
}

func newRecommendationRepository(client *firestore.Client) *recommendationRepository {
	return &recommendationRepository{client: client}
}

func (r *recommendationRepository) Create(ctx context.Context, record *model.RecommendationRecord) (*model.RecommendationRecord, error) {
	created := *record
	if created.ID == "" {
		created.ID = model.NewRecommendationID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(collectionRecommendations).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toRecommendationDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create recommendation record", goerr.V("recommendationID", created.ID))
	}

	return &created, nil
}

func (r *recommendationRepository) List(ctx context.Context, memberID string, opts ...interfaces.ListRecommendationOption) ([]*model.RecommendationRecord, error) {
	cfg := interfaces.BuildListRecommendationConfig(opts...)

	query := r.client.Collection(collectionRecommendations).
		Where("MemberID", "==", memberID)

	if noteID := cfg.NoteID(); noteID != nil {
		query = query.Where("NoteID", "==", string(*noteID))
	}
	if start := cfg.StartDate(); start != nil {
		query = query.Where("SessionDate", ">=", *start)
	}
	if end := cfg.EndDate(); end != nil {
		query = query.Where("SessionDate", "<=", *end)
	}

	query = query.OrderBy("CreatedAt", firestore.Desc)
	if limit := cfg.Limit(); limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	records := make([]*model.RecommendationRecord, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate recommendation records", goerr.V("memberID", memberID))
		}

		var d recommendationDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal recommendation record")
		}

		records = append(records, fromRecommendationDoc(&d))
	}

	return records, nil
}
