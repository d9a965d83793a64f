package memory

import (
	"errors"

	"github.com/carecompass-dev/carecompass/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Memory is an in-memory Repository implementation for tests and
// development. All data is lost when the process exits.
type Memory struct {
	note           *noteRepository
	recommendation *recommendationRepository
	programIndex   *programIndex
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		note:           newNoteRepository(),
		recommendation: newRecommendationRepository(),
		programIndex:   newProgramIndex(),
	}
}

func (m *Memory) Note() interfaces.NoteRepository {
	return m.note
}

func (m *Memory) Recommendation() interfaces.RecommendationRepository {
	return m.recommendation
}

func (m *Memory) ProgramIndex() interfaces.ProgramIndex {
	return m.programIndex
}

func (m *Memory) Close() error {
	return nil
}
