package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/carecompass-dev/carecompass/pkg/controller/http"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/repository/memory"
	"github.com/carecompass-dev/carecompass/pkg/usecase"
)

type stubVectorizer struct{}

func (s *stubVectorizer) Vectorize(ctx context.Context, note *model.Note) (*model.NoteEmbedding, error) {
	return &model.NoteEmbedding{
		NoteID:    note.ID,
		MemberID:  note.MemberID,
		SessionAt: note.SessionAt,
		Vector:    make([]float32, model.EmbeddingDimension),
	}, nil
}

type stubExtractor struct{}

func (s *stubExtractor) Extract(ctx context.Context, noteText string) []string {
	return []string{"cooking"}
}

type stubEmbedder struct{}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, model.EmbeddingDimension)
	v[0] = 1
	return v, nil
}

type stubRationale struct{}

func (s *stubRationale) Generate(ctx context.Context, input *usecase.RationaleInput) string {
	return "stub rationale"
}

func newTestServer(t *testing.T) (*httpctrl.Server, *memory.Memory) {
	t.Helper()

	repo := memory.New()
	uc := usecase.New(repo,
		usecase.WithVectorizer(&stubVectorizer{}),
		usecase.WithKeywordExtractor(&stubExtractor{}),
		usecase.WithEmbedder(&stubEmbedder{}),
		usecase.WithRationaleWriter(&stubRationale{}),
	)
	return httpctrl.New(uc), repo
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestAdaptiveRequiresMember(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations/adaptive", nil))

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestAdaptiveEmptyHistory(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations/adaptive?memberId=m1", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Recommendations []model.ProgramMatch `json:"recommendations"`
		NotesConsidered int                  `json:"notesConsidered"`
		Rationale       string               `json:"rationale"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Array(t, resp.Recommendations).Length(0)
	gt.Value(t, resp.NotesConsidered).Equal(0)
	gt.String(t, resp.Rationale).Contains("Not enough historical data")
}

func TestSuggestRejectsEmptyTranscript(t *testing.T) {
	srv, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"transcript": ""}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/suggestions", body))

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestSuggestReturnsKeywords(t *testing.T) {
	srv, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"transcript": "worked on cooking today"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/suggestions", body))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Keywords []string `json:"keywords"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.Keywords).Equal([]string{"cooking"})
}

func TestCreateNoteEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)

	body := bytes.NewBufferString(`{
		"memberId": "m1",
		"sessionAt": "2026-08-30T10:00:00Z",
		"activityType": "Cooking",
		"mood": "engaged",
		"summary": "Prepared lunch"
	}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notes", body))

	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var created model.Note
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
	gt.Value(t, created.MemberID).Equal("m1")

	got, err := repo.Note().Get(context.Background(), created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Summary).Equal("Prepared lunch")
}

func TestIndexStatsEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)

	v := make([]float32, model.EmbeddingDimension)
	v[0] = 1
	err := repo.ProgramIndex().Upsert(context.Background(), []*model.Program{
		{ID: "p1", Name: "P1", Vector: v},
	})
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/index/stats", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var stats model.IndexStats
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats)).Required()
	gt.Value(t, stats.Dimension).Equal(model.EmbeddingDimension)
	gt.Value(t, stats.Count).Equal(1)
}
