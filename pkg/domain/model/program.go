package model

import (
	"strings"
	"time"
)

// Program is one entry of the externally curated activity catalog. The
// vector is computed once at catalog ingestion; a program without a
// usable vector cannot be matched semantically.
type Program struct {
	ID          string
	Category    string
	Name        string
	Description string
	Link        string
	Keywords    []string
	LifeSkills  []string
	Vector      []float32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SearchText joins the program's display and keyword fields into one
// lower-cased haystack for keyword-overlap matching
func (p *Program) SearchText() string {
	parts := make([]string, 0, 2+len(p.Keywords)+len(p.LifeSkills))
	parts = append(parts, p.Name, p.Description)
	parts = append(parts, p.Keywords...)
	parts = append(parts, p.LifeSkills...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ProgramCandidate is a raw similarity-search hit before matcher
// post-processing. Score units depend on the index backend.
type ProgramCandidate struct {
	Program *Program
	Score   float64
}

// ProgramMatch is one ranked, deduplicated match returned to callers.
// Similarity is normalized to [0, 1] (cosine clamped at zero, or the
// keyword-overlap fraction in filter mode).
type ProgramMatch struct {
	ProgramID   string   `json:"programId"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Link        string   `json:"link,omitempty"`
	LifeSkills  []string `json:"lifeSkills,omitempty"`
	Similarity  float64  `json:"similarity"`
}

// IndexStats describes the state of the program index
type IndexStats struct {
	Dimension int
	Count     int
}
