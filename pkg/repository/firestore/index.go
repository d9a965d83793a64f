package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

// distanceField receives the cosine distance computed by FindNearest.
// Similarity is recovered as 1 - distance.
const distanceField = "vector_distance"

type programDoc struct {
	ID          string             `firestore:"ID"`
	Category    string             `firestore:"Category"`
	Name        string             `firestore:"Name"`
	Description string             `firestore:"Description"`
	Link        string             `firestore:"Link"`
	Keywords    []string           `firestore:"Keywords"`
	LifeSkills  []string           `firestore:"LifeSkills"`
	Embedding   firestore.Vector32 `firestore:"Embedding,omitempty"`
	SearchTerms []string           `firestore:"SearchTerms"`
	CreatedAt   time.Time          `firestore:"CreatedAt"`
	UpdatedAt   time.Time          `firestore:"UpdatedAt"`
}

func toProgramDoc(p *model.Program) *programDoc {
	doc := &programDoc{
		ID:          p.ID,
		Category:    p.Category,
		Name:        p.Name,
		Description: p.Description,
		Link:        p.Link,
		Keywords:    p.Keywords,
		LifeSkills:  p.LifeSkills,
		SearchTerms: searchTerms(p),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if len(p.Vector) > 0 {
		doc.Embedding = firestore.Vector32(p.Vector)
	}
	return doc
}

func fromProgramDoc(d *programDoc) *model.Program {
	return &model.Program{
		ID:          d.ID,
		Category:    d.Category,
		Name:        d.Name,
		Description: d.Description,
		Link:        d.Link,
		Keywords:    d.Keywords,
		LifeSkills:  d.LifeSkills,
		Vector:      []float32(d.Embedding),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// searchTerms builds the lowercased term list used by the
// array-contains-any keyword filter query.
func searchTerms(p *model.Program) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0)

	add := func(values ...string) {
		for _, v := range values {
			for _, w := range strings.Fields(strings.ToLower(v)) {
				if _, ok := seen[w]; ok {
					continue
				}
				seen[w] = struct{}{}
				terms = append(terms, w)
			}
		}
	}

	add(p.Name)
	add(p.Keywords...)
	add(p.LifeSkills...)

	return terms
}

type programIndex struct {
	client *firestore.Client
}

func newProgramIndex(client *firestore.Client) *programIndex {
	return &programIndex{client: client}
}

func (x *programIndex) Upsert(ctx context.Context, programs []*model.Program) error {
	now := time.Now().UTC()

	bw := x.client.BulkWriter(ctx)
	for _, p := range programs {
		stored := *p
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		stored.UpdatedAt = now

		docRef := x.client.Collection(collectionPrograms).Doc(stored.ID)
		if _, err := bw.Set(docRef, toProgramDoc(&stored)); err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to queue program upsert", goerr.V("programID", stored.ID))
		}
	}
	bw.End()

	return nil
}

func (x *programIndex) Query(ctx context.Context, vector []float32, topK int) ([]*model.ProgramCandidate, error) {
	query := x.client.Collection(collectionPrograms).FindNearest(
		"Embedding",
		firestore.Vector32(vector),
		topK,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{
			DistanceResultField: distanceField,
		},
	)

	iter := query.Documents(ctx)
	defer iter.Stop()

	candidates := make([]*model.ProgramCandidate, 0, topK)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query program index")
		}

		var d programDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal program")
		}

		score := 0.0
		if distance, ok := doc.Data()[distanceField].(float64); ok {
			score = 1 - distance
		}

		candidates = append(candidates, &model.ProgramCandidate{
			Program: fromProgramDoc(&d),
			Score:   score,
		})
	}

	return candidates, nil
}

func (x *programIndex) Filter(ctx context.Context, keywords []string, limit int) ([]*model.Program, error) {
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		for _, w := range strings.Fields(strings.ToLower(kw)) {
			terms = append(terms, w)
		}
	}
	// array-contains-any accepts at most 10 values
	if len(terms) > 10 {
		terms = terms[:10]
	}
	if len(terms) == 0 {
		return []*model.Program{}, nil
	}

	query := x.client.Collection(collectionPrograms).
		Where("SearchTerms", "array-contains-any", terms)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	programs := make([]*model.Program, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to filter programs", goerr.V("keywords", keywords))
		}

		var d programDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal program")
		}

		programs = append(programs, fromProgramDoc(&d))
	}

	return programs, nil
}

func (x *programIndex) Stats(ctx context.Context) (*model.IndexStats, error) {
	iter := x.client.Collection(collectionPrograms).Select("ID").Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to count programs")
		}
		count++
	}

	return &model.IndexStats{
		Dimension: model.EmbeddingDimension,
		Count:     count,
	}, nil
}
