package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/carecompass-dev/carecompass/pkg/domain/types"
)

// RecommendationID is a UUID-based identifier for RecommendationRecord
type RecommendationID string

// NewRecommendationID generates a new UUID v4 RecommendationID
func NewRecommendationID() RecommendationID {
	return RecommendationID(uuid.New().String())
}

// RecommendationRecord is one persisted recommendation run. Programs is
// a snapshot: later catalog edits do not change a stored record. NoteID
// is empty for adaptive (history-based) runs.
type RecommendationRecord struct {
	ID          RecommendationID
	MemberID    string
	NoteID      NoteID
	SessionDate time.Time
	Programs    []ProgramMatch
	Keywords    []string
	CreatedAt   time.Time
}

// TrendSummary is the averaged trend-score triple for a history window
// plus a direction classification comparing the recent half of the
// window against the older half.
type TrendSummary struct {
	Direction        types.TrendDirection `json:"direction"`
	AvgMood          float64              `json:"avgMood"`
	AvgPrompt        float64              `json:"avgPrompt"`
	AvgParticipation float64              `json:"avgParticipation"`
}

// FlattenPrograms merges the program snapshots of multiple records into
// one list deduplicated by program ID. Records are expected newest-first;
// the first occurrence of each program wins.
func FlattenPrograms(records []*RecommendationRecord) []ProgramMatch {
	seen := make(map[string]bool)
	var flattened []ProgramMatch

	for _, record := range records {
		for _, p := range record.Programs {
			if seen[p.ProgramID] {
				continue
			}
			seen[p.ProgramID] = true
			flattened = append(flattened, p)
		}
	}

	return flattened
}
