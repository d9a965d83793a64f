package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/repository/firestore"
	"github.com/carecompass-dev/carecompass/pkg/repository/memory"
)

func runNoteRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		memberID := fmt.Sprintf("member-%d", time.Now().UnixNano())
		note := &model.Note{
			MemberID:        memberID,
			SessionAt:       time.Now().Add(-2 * time.Hour).UTC().Truncate(time.Second),
			ActivityType:    "Cooking class",
			Mood:            "Engaged",
			Participation:   "High",
			PromptsRequired: "Minimal",
			Summary:         "Prepared a sandwich with minimal prompting",
			FollowUps:       []string{"practice knife safety"},
			Medications: []model.Medication{
				{Name: "Medication A", Dose: "10mg", Route: "oral", Time: "09:00", Status: "given"},
			},
		}

		created, err := repo.Note().Create(ctx, note)
		if err != nil {
			t.Fatalf("failed to create note: %v", err)
		}

		if created.ID == "" {
			t.Error("expected non-empty ID")
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
		if created.MemberID != memberID {
			t.Errorf("expected MemberID=%s, got %s", memberID, created.MemberID)
		}

		got, err := repo.Note().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get note: %v", err)
		}
		if got.Summary != note.Summary {
			t.Errorf("expected Summary=%q, got %q", note.Summary, got.Summary)
		}
		if len(got.FollowUps) != 1 || got.FollowUps[0] != "practice knife safety" {
			t.Errorf("unexpected FollowUps: %v", got.FollowUps)
		}
		if len(got.Medications) != 1 || got.Medications[0].Name != "Medication A" {
			t.Errorf("unexpected Medications: %v", got.Medications)
		}
	})

	t.Run("Get returns error for missing note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Note().Get(ctx, model.NoteID(fmt.Sprintf("missing-%d", time.Now().UnixNano())))
		if err == nil {
			t.Error("expected error for missing note")
		}
	})

	t.Run("List filters by member and window, ascending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		memberID := fmt.Sprintf("member-%d", time.Now().UnixNano())
		otherID := memberID + "-other"
		base := time.Now().UTC().Truncate(time.Second)

		sessions := []time.Time{
			base.Add(-30 * 24 * time.Hour), // outside window
			base.Add(-5 * 24 * time.Hour),
			base.Add(-1 * 24 * time.Hour),
		}
		for i, at := range sessions {
			if _, err := repo.Note().Create(ctx, &model.Note{
				MemberID:  memberID,
				SessionAt: at,
				Summary:   fmt.Sprintf("session %d", i),
			}); err != nil {
				t.Fatalf("failed to create note: %v", err)
			}
		}
		if _, err := repo.Note().Create(ctx, &model.Note{
			MemberID:  otherID,
			SessionAt: base.Add(-2 * 24 * time.Hour),
			Summary:   "other member",
		}); err != nil {
			t.Fatalf("failed to create note: %v", err)
		}

		since := base.Add(-21 * 24 * time.Hour)
		notes, err := repo.Note().List(ctx, memberID, since)
		if err != nil {
			t.Fatalf("failed to list notes: %v", err)
		}

		if len(notes) != 2 {
			t.Fatalf("expected 2 notes, got %d", len(notes))
		}
		if !notes[0].SessionAt.Before(notes[1].SessionAt) {
			t.Error("expected notes in ascending session order")
		}
	})

	t.Run("PutEmbedding and GetEmbedding round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		noteID := model.NoteID(fmt.Sprintf("note-%d", time.Now().UnixNano()))
		memberID := fmt.Sprintf("member-%d", time.Now().UnixNano())

		vector := make([]float32, model.EmbeddingDimension)
		vector[0] = 0.5
		vector[model.EmbeddingDimension-1] = -0.25

		emb := &model.NoteEmbedding{
			NoteID:    noteID,
			MemberID:  memberID,
			SessionAt: time.Now().UTC().Truncate(time.Second),
			Vector:    vector,
			Scores: model.TrendScores{
				Mood:          2,
				Prompt:        1,
				Participation: 3,
			},
		}

		if err := repo.Note().PutEmbedding(ctx, emb); err != nil {
			t.Fatalf("failed to put embedding: %v", err)
		}

		got, err := repo.Note().GetEmbedding(ctx, noteID)
		if err != nil {
			t.Fatalf("failed to get embedding: %v", err)
		}
		if len(got.Vector) != model.EmbeddingDimension {
			t.Errorf("expected %d dims, got %d", model.EmbeddingDimension, len(got.Vector))
		}
		if got.Vector[0] != 0.5 {
			t.Errorf("expected Vector[0]=0.5, got %f", got.Vector[0])
		}
		if got.Scores.Mood != 2 || got.Scores.Prompt != 1 || got.Scores.Participation != 3 {
			t.Errorf("unexpected scores: %+v", got.Scores)
		}

		// Upsert with same note ID replaces, no duplicate
		emb.Scores.Mood = -1
		if err := repo.Note().PutEmbedding(ctx, emb); err != nil {
			t.Fatalf("failed to re-put embedding: %v", err)
		}
		got, err = repo.Note().GetEmbedding(ctx, noteID)
		if err != nil {
			t.Fatalf("failed to get embedding after upsert: %v", err)
		}
		if got.Scores.Mood != -1 {
			t.Errorf("expected upserted Mood=-1, got %f", got.Scores.Mood)
		}
	})

	t.Run("GetEmbedding returns error on cache miss", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Note().GetEmbedding(ctx, model.NoteID(fmt.Sprintf("no-emb-%d", time.Now().UnixNano())))
		if err == nil {
			t.Error("expected error for missing embedding")
		}
	})
}

func runRecommendationRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and List returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		memberID := fmt.Sprintf("member-%d", time.Now().UnixNano())
		sessionDate := time.Now().UTC().Truncate(time.Second)

		for i := 0; i < 3; i++ {
			record := &model.RecommendationRecord{
				MemberID:    memberID,
				SessionDate: sessionDate.Add(time.Duration(-i) * 24 * time.Hour),
				Programs: []model.ProgramMatch{
					{ProgramID: fmt.Sprintf("prog-%d", i), Name: fmt.Sprintf("Program %d", i), Similarity: 0.9},
				},
				Keywords: []string{"cooking"},
			}
			created, err := repo.Recommendation().Create(ctx, record)
			if err != nil {
				t.Fatalf("failed to create record: %v", err)
			}
			if created.ID == "" {
				t.Error("expected non-empty record ID")
			}
			time.Sleep(10 * time.Millisecond) // distinct CreatedAt ordering
		}

		records, err := repo.Recommendation().List(ctx, memberID)
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		for i := 1; i < len(records); i++ {
			if records[i].CreatedAt.After(records[i-1].CreatedAt) {
				t.Error("expected newest-first ordering")
			}
		}
	})

	t.Run("List honors note filter and limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		memberID := fmt.Sprintf("member-%d", time.Now().UnixNano())
		noteID := model.NoteID(fmt.Sprintf("note-%d", time.Now().UnixNano()))
		sessionDate := time.Now().UTC().Truncate(time.Second)

		for i := 0; i < 2; i++ {
			rec := &model.RecommendationRecord{
				MemberID:    memberID,
				SessionDate: sessionDate,
				Programs:    []model.ProgramMatch{{ProgramID: "p1", Name: "P1", Similarity: 0.5}},
			}
			if i == 0 {
				rec.NoteID = noteID
			}
			if _, err := repo.Recommendation().Create(ctx, rec); err != nil {
				t.Fatalf("failed to create record: %v", err)
			}
		}

		byNote, err := repo.Recommendation().List(ctx, memberID, interfaces.WithNoteID(noteID))
		if err != nil {
			t.Fatalf("failed to list by note: %v", err)
		}
		if len(byNote) != 1 {
			t.Fatalf("expected 1 record for note filter, got %d", len(byNote))
		}
		if byNote[0].NoteID != noteID {
			t.Errorf("expected NoteID=%s, got %s", noteID, byNote[0].NoteID)
		}

		limited, err := repo.Recommendation().List(ctx, memberID, interfaces.WithLimit(1))
		if err != nil {
			t.Fatalf("failed to list with limit: %v", err)
		}
		if len(limited) != 1 {
			t.Fatalf("expected 1 record with limit, got %d", len(limited))
		}
	})
}

func runProgramIndexTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Upsert and Filter by keyword", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		suffix := fmt.Sprintf("%d", time.Now().UnixNano())
		programs := []*model.Program{
			{
				ID:          "cooking-" + suffix,
				Category:    "Daily Living",
				Name:        "Cooking Basics",
				Description: "Learn meal preparation",
				Keywords:    []string{"cooking", "kitchen"},
				LifeSkills:  []string{"meal preparation"},
			},
			{
				ID:          "social-" + suffix,
				Category:    "Social Skills",
				Name:        "Group Games",
				Description: "Turn-taking and communication",
				Keywords:    []string{"social", "games"},
				LifeSkills:  []string{"communication"},
			},
		}
		if err := repo.ProgramIndex().Upsert(ctx, programs); err != nil {
			t.Fatalf("failed to upsert programs: %v", err)
		}

		found, err := repo.ProgramIndex().Filter(ctx, []string{"cooking"}, 10)
		if err != nil {
			t.Fatalf("failed to filter programs: %v", err)
		}
		if len(found) == 0 {
			t.Fatal("expected at least one match for cooking")
		}
		hit := false
		for _, p := range found {
			if p.ID == "cooking-"+suffix {
				hit = true
			}
		}
		if !hit {
			t.Error("expected the cooking program in filter results")
		}
	})

	t.Run("Stats reports dimension", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stats, err := repo.ProgramIndex().Stats(ctx)
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if stats.Dimension != model.EmbeddingDimension {
			t.Errorf("expected dimension %d, got %d", model.EmbeddingDimension, stats.Dimension)
		}
	})
}

func newMemoryRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	repo, err := firestore.New(context.Background(), projectID, databaseID)
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Logf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryRepository(t *testing.T) {
	runNoteRepositoryTest(t, newMemoryRepo)
	runRecommendationRepositoryTest(t, newMemoryRepo)
	runProgramIndexTest(t, newMemoryRepo)
}

func TestFirestoreRepository(t *testing.T) {
	runNoteRepositoryTest(t, newFirestoreRepo)
	runRecommendationRepositoryTest(t, newFirestoreRepo)
	runProgramIndexTest(t, newFirestoreRepo)
}
