package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/usecase"
	"github.com/carecompass-dev/carecompass/pkg/utils/errutil"
)

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, usecase.ErrInvalidInput) {
		code = http.StatusBadRequest
	}
	errutil.HandleHTTP(r.Context(), w, err, code)
}

// GET /api/recommendations/adaptive?memberId=&days=&topK=
func (s *Server) adaptiveHandler(w http.ResponseWriter, r *http.Request) {
	input := &usecase.AdaptiveInput{
		MemberID: r.URL.Query().Get("memberId"),
		Days:     queryInt(r, "days"),
		TopK:     queryInt(r, "topK"),
	}

	result, err := s.uc.Adaptive(r.Context(), input)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

type suggestRequest struct {
	Transcript  string `json:"transcript"`
	Summary     string `json:"summary"`
	MemberID    string `json:"memberId"`
	NoteID      string `json:"noteId"`
	SessionDate string `json:"sessionDate"`
	TopK        int    `json:"topK"`
}

// POST /api/suggestions
func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err)))
		return
	}

	input := &usecase.SuggestInput{
		Transcript: req.Transcript,
		Summary:    req.Summary,
		MemberID:   req.MemberID,
		NoteID:     model.NoteID(req.NoteID),
		TopK:       req.TopK,
	}
	if req.SessionDate != "" {
		t, err := parseTime(req.SessionDate)
		if err != nil {
			s.handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid sessionDate", goerr.V("value", req.SessionDate)))
			return
		}
		input.SessionDate = t
	}

	result, err := s.uc.Suggest(r.Context(), input)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

// GET /api/recommendations?memberId=&noteId=&startDate=&endDate=&limit=&flatten=
func (s *Server) storedRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("memberId")

	opts := make([]interfaces.ListRecommendationOption, 0, 4)
	if noteID := r.URL.Query().Get("noteId"); noteID != "" {
		opts = append(opts, interfaces.WithNoteID(model.NoteID(noteID)))
	}
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			s.handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid startDate", goerr.V("value", v)))
			return
		}
		opts = append(opts, interfaces.WithStartDate(t))
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			s.handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid endDate", goerr.V("value", v)))
			return
		}
		opts = append(opts, interfaces.WithEndDate(t))
	}
	if limit := queryInt(r, "limit"); limit > 0 {
		opts = append(opts, interfaces.WithLimit(limit))
	}

	if r.URL.Query().Get("flatten") == "true" {
		programs, err := s.uc.StoredPrograms(r.Context(), memberID, opts...)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]any{"programs": programs})
		return
	}

	records, err := s.uc.StoredRecommendations(r.Context(), memberID, opts...)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"recommendations": records})
}

type createNoteRequest struct {
	MemberID        string             `json:"memberId"`
	SessionAt       string             `json:"sessionAt"`
	ActivityType    string             `json:"activityType"`
	Mood            string             `json:"mood"`
	Participation   string             `json:"participation"`
	PromptsRequired string             `json:"promptsRequired"`
	Summary         string             `json:"summary"`
	FollowUps       []string           `json:"followUps"`
	Medications     []model.Medication `json:"medications"`
}

// POST /api/notes
func (s *Server) createNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err)))
		return
	}

	note := &model.Note{
		MemberID:        req.MemberID,
		ActivityType:    req.ActivityType,
		Mood:            req.Mood,
		Participation:   req.Participation,
		PromptsRequired: req.PromptsRequired,
		Summary:         req.Summary,
		FollowUps:       req.FollowUps,
		Medications:     req.Medications,
	}
	if req.SessionAt != "" {
		t, err := parseTime(req.SessionAt)
		if err != nil {
			s.handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid sessionAt", goerr.V("value", req.SessionAt)))
			return
		}
		note.SessionAt = t
	}

	created, err := s.uc.CreateNote(r.Context(), note)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, created)
}

// GET /api/index/stats
func (s *Server) indexStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.IndexStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stats)
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// parseTime accepts RFC3339 timestamps and bare dates.
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
