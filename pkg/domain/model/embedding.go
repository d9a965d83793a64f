package model

import (
	"time"
)

// EmbeddingDimension is the dimension of all embedding vectors.
// The embedding provider is pinned to this dimension on every call.
const EmbeddingDimension = 512

// TrendScores is the numeric triple derived from a note's categorical
// fields (see types.MoodScore and friends).
type TrendScores struct {
	Mood          float64
	Prompt        float64
	Participation float64
}

// NoteEmbedding is the cached vector representation of a note. It is
// computed lazily, never mutated once created, and may be replaced if
// the note is re-vectorized.
type NoteEmbedding struct {
	NoteID    NoteID
	MemberID  string
	SessionAt time.Time
	Vector    []float32
	Scores    TrendScores
	CreatedAt time.Time
}

// MeanVector returns the element-wise mean of the given vectors. With no
// input it returns the explicit zero vector of EmbeddingDimension, which
// callers must treat as "no signal" rather than a valid query.
func MeanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return make([]float32, EmbeddingDimension)
	}

	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i := range v {
			mean[i] += float64(v[i])
		}
	}

	result := make([]float32, len(mean))
	n := float64(len(vectors))
	for i := range mean {
		result[i] = float32(mean[i] / n)
	}

	return result
}

// IsZeroVector reports whether every element of the vector is zero
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
