package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/repository/memory"
	"github.com/carecompass-dev/carecompass/pkg/usecase"
)

func TestCreateNoteCachesEmbedding(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithVectorizer(&mockVectorizer{}))

	created, err := uc.CreateNote(context.Background(), &model.Note{
		MemberID: "member-1",
		Summary:  "Prepared lunch with minimal prompting",
		Mood:     "engaged",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).NotEqual(model.NoteID(""))
	gt.Bool(t, created.SessionAt.IsZero()).False()

	emb, err := repo.Note().GetEmbedding(context.Background(), created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, emb.NoteID).Equal(created.ID)
}

func TestCreateNoteSurvivesVectorizeFailure(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithVectorizer(&mockVectorizer{
		vectorizeFn: func(ctx context.Context, note *model.Note) (*model.NoteEmbedding, error) {
			return nil, goerr.New("embedding provider down")
		},
	}))

	created, err := uc.CreateNote(context.Background(), &model.Note{
		MemberID: "member-1",
		Summary:  "Session went fine",
	})
	gt.NoError(t, err).Required()

	// note is stored even though the embedding is missing
	got, err := repo.Note().Get(context.Background(), created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Summary).Equal("Session went fine")

	_, err = repo.Note().GetEmbedding(context.Background(), created.ID)
	gt.Value(t, err).NotNil()
}

func TestCreateNoteValidation(t *testing.T) {
	uc := usecase.New(memory.New(), usecase.WithVectorizer(&mockVectorizer{}))

	_, err := uc.CreateNote(context.Background(), &model.Note{Summary: "no member"})
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()

	_, err = uc.CreateNote(context.Background(), &model.Note{MemberID: "member-1"})
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
}
