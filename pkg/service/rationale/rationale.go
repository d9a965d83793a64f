// Package rationale generates the short explanation attached to a set
// of recommended programs.
package rationale

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m-mizutani/gollem"

	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

// Fallback is returned whenever rationale generation cannot complete.
// Callers always get a usable sentence.
const Fallback = "Based on recent notes, the recommended programs above align with current progress and focus areas."

type Service struct {
	llmClient gollem.LLMClient
}

func New(llmClient gollem.LLMClient) *Service {
	return &Service{llmClient: llmClient}
}

// Input carries the context the rationale is written from.
type Input struct {
	TrendDirection string
	Activities     []string
	ProgramNames   []string
}

// Generate returns a 2-3 sentence rationale for the recommended
// programs. It never returns an error: any failure yields Fallback.
func (s *Service) Generate(ctx context.Context, input *Input) string {
	if s.llmClient == nil || len(input.ProgramNames) == 0 {
		return Fallback
	}

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(
			"You write brief, caregiver-friendly explanations of why day programs were recommended. "+
				"Be concrete, warm, and specific. Write 2-3 sentences, no lists.",
		),
	)
	if err != nil {
		logging.From(ctx).Warn("failed to start rationale session, using fallback",
			slog.Any("error", err),
		)
		return Fallback
	}

	prompt := fmt.Sprintf(`Recent progress trend: %s
Recent activities: %s
Recommended programs: %s

Explain in 2-3 sentences why these programs fit the member's recent progress.`,
		input.TrendDirection,
		strings.Join(input.Activities, ", "),
		strings.Join(input.ProgramNames, ", "),
	)

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil || len(resp.Texts) == 0 {
		logging.From(ctx).Warn("rationale generation failed, using fallback",
			slog.Any("error", err),
		)
		return Fallback
	}

	rationale := strings.TrimSpace(resp.Texts[0])
	if rationale == "" {
		return Fallback
	}
	return rationale
}
