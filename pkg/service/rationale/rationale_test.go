package rationale_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/carecompass-dev/carecompass/pkg/service/rationale"
)

func TestGenerateFallsBackWithoutLLM(t *testing.T) {
	svc := rationale.New(nil)

	got := svc.Generate(context.Background(), &rationale.Input{
		TrendDirection: "improving",
		Activities:     []string{"cooking"},
		ProgramNames:   []string{"Cooking Basics"},
	})
	gt.Value(t, got).Equal(rationale.Fallback)
}

func TestGenerateFallsBackWithoutPrograms(t *testing.T) {
	svc := rationale.New(nil)

	got := svc.Generate(context.Background(), &rationale.Input{
		TrendDirection: "stable",
	})
	gt.Value(t, got).Equal(rationale.Fallback)
}
