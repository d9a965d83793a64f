package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/carecompass-dev/carecompass/pkg/domain/types"
)

func TestMoodScore(t *testing.T) {
	cases := map[string]float64{
		"engaged":    2,
		"Happy":      2,
		"calm":       1,
		"neutral":    0,
		"anxious":    -1,
		"frustrated": -1,
		"AGITATED":   -2,
		"withdrawn":  -2,
		"unknown":    0,
		"":           0,
	}
	for mood, want := range cases {
		gt.Value(t, types.MoodScore(mood)).Equal(want)
	}
}

func TestPromptScore(t *testing.T) {
	cases := map[string]float64{
		"none":     0,
		"minimal":  1,
		"Moderate": 2,
		"max":      3,
		"maximum":  3,
		"unknown":  1,
		"":         1,
	}
	for prompts, want := range cases {
		gt.Value(t, types.PromptScore(prompts)).Equal(want)
	}
}

func TestParticipationScore(t *testing.T) {
	cases := map[string]float64{
		"high":     3,
		"Medium":   2,
		"moderate": 2,
		"low":      1,
		"unknown":  2,
		"":         2,
	}
	for participation, want := range cases {
		gt.Value(t, types.ParticipationScore(participation)).Equal(want)
	}
}

func TestTrendDirection(t *testing.T) {
	gt.Value(t, types.TrendImproving.String()).Equal("improving")
	gt.Value(t, types.TrendStable.String()).Equal("stable")
	gt.Value(t, types.TrendDeclining.String()).Equal("declining")

	gt.Bool(t, types.TrendImproving.IsValid()).True()
	gt.Bool(t, types.TrendDirection("sideways").IsValid()).False()
}
