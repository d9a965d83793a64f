package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Note() NoteRepository
	Recommendation() RecommendationRepository
	ProgramIndex() ProgramIndex

	Close() error
}
