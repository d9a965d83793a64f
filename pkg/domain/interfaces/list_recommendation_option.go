package interfaces

import (
	"time"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

// DefaultRecommendationLimit bounds List results when no limit is given
const DefaultRecommendationLimit = 50

// ListRecommendationOption is a functional option for filtering
// recommendation records in List
type ListRecommendationOption func(*listRecommendationConfig)

type listRecommendationConfig struct {
	noteID    *model.NoteID
	startDate *time.Time
	endDate   *time.Time
	limit     int
}

// WithNoteID filters records by the note they were generated for
func WithNoteID(noteID model.NoteID) ListRecommendationOption {
	return func(c *listRecommendationConfig) {
		c.noteID = &noteID
	}
}

// WithStartDate filters records with session date at or after start
func WithStartDate(start time.Time) ListRecommendationOption {
	return func(c *listRecommendationConfig) {
		c.startDate = &start
	}
}

// WithEndDate filters records with session date at or before end
func WithEndDate(end time.Time) ListRecommendationOption {
	return func(c *listRecommendationConfig) {
		c.endDate = &end
	}
}

// WithLimit caps the number of returned records
func WithLimit(limit int) ListRecommendationOption {
	return func(c *listRecommendationConfig) {
		c.limit = limit
	}
}

// BuildListRecommendationConfig builds a listRecommendationConfig from options
func BuildListRecommendationConfig(opts ...ListRecommendationOption) *listRecommendationConfig {
	cfg := &listRecommendationConfig{limit: DefaultRecommendationLimit}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NoteID returns the note filter value, or nil if not set
func (c *listRecommendationConfig) NoteID() *model.NoteID {
	return c.noteID
}

// StartDate returns the start date filter value, or nil if not set
func (c *listRecommendationConfig) StartDate() *time.Time {
	return c.startDate
}

// EndDate returns the end date filter value, or nil if not set
func (c *listRecommendationConfig) EndDate() *time.Time {
	return c.endDate
}

// Limit returns the record limit
func (c *listRecommendationConfig) Limit() int {
	return c.limit
}
