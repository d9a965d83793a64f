package types

import "strings"

// TrendDirection classifies a member's recent trajectory
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// String returns the string representation of the trend direction
func (d TrendDirection) String() string {
	return string(d)
}

// IsValid checks if the trend direction is valid
func (d TrendDirection) IsValid() bool {
	switch d {
	case TrendImproving, TrendStable, TrendDeclining:
		return true
	default:
		return false
	}
}

// Categorical observations are mapped to small integers so they can be
// averaged and compared over time. Unrecognized or absent values map to
// a neutral default so sparse notes do not skew averages.

var moodScores = map[string]float64{
	"engaged":    2,
	"happy":      2,
	"calm":       1,
	"neutral":    0,
	"anxious":    -1,
	"frustrated": -1,
	"agitated":   -2,
	"withdrawn":  -2,
}

var promptScores = map[string]float64{
	"none":     0,
	"minimal":  1,
	"moderate": 2,
	"max":      3,
	"maximum":  3,
}

var participationScores = map[string]float64{
	"high":     3,
	"medium":   2,
	"moderate": 2,
	"low":      1,
}

// MoodScore maps a mood label to its numeric score. Default is 0 (neutral).
func MoodScore(mood string) float64 {
	if s, ok := moodScores[strings.ToLower(mood)]; ok {
		return s
	}
	return 0
}

// PromptScore maps a prompts-required label to its numeric score.
// Default is 1 (minimal support).
func PromptScore(prompts string) float64 {
	if s, ok := promptScores[strings.ToLower(prompts)]; ok {
		return s
	}
	return 1
}

// ParticipationScore maps a participation label to its numeric score.
// Default is 2 (medium engagement).
func ParticipationScore(participation string) float64 {
	if s, ok := participationScores[strings.ToLower(participation)]; ok {
		return s
	}
	return 2
}
