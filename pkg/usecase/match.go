package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

// keywordFilterFloor is the minimum score a program keeps when matched
// by the non-semantic keyword filter.
const keywordFilterFloor = 0.1

// MatchByVector returns the topK programs closest to the given vector.
// A zero or empty vector yields no matches. The index is asked for
// twice topK so that unnamed entries and duplicates can be dropped
// without starving the result.
func (uc *UseCases) MatchByVector(ctx context.Context, vector []float32, topK int) ([]model.ProgramMatch, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(vector) == 0 || model.IsZeroVector(vector) {
		return []model.ProgramMatch{}, nil
	}

	candidates, err := uc.repo.ProgramIndex().Query(ctx, vector, topK*2)
	if err != nil {
		return nil, goerr.Wrap(ErrIndexUnavailable, "vector query failed", goerr.V("cause", err))
	}

	return rankCandidates(candidates, topK), nil
}

// MatchByKeywords embeds the joined keywords and runs a vector match.
// If embedding or the vector query fails, it degrades to the keyword
// filter so callers still get matches while the semantic path is down.
func (uc *UseCases) MatchByKeywords(ctx context.Context, kws []string, topK int) ([]model.ProgramMatch, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(kws) == 0 {
		return []model.ProgramMatch{}, nil
	}

	vector, err := uc.embedder.Embed(ctx, strings.Join(kws, " "))
	if err != nil {
		logging.From(ctx).Warn("keyword embedding failed, using keyword filter",
			slog.Any("error", err),
		)
		return uc.keywordFilterMatch(ctx, kws, topK)
	}

	candidates, err := uc.repo.ProgramIndex().Query(ctx, vector, keywordSearchLimit)
	if err != nil {
		logging.From(ctx).Warn("vector query failed, using keyword filter",
			slog.Any("error", err),
		)
		return uc.keywordFilterMatch(ctx, kws, topK)
	}

	return rankCandidates(candidates, topK), nil
}

// keywordFilterMatch scores programs by the fraction of keywords found
// in their searchable text. Scores are floored so a matched program is
// never reported as a non-match.
func (uc *UseCases) keywordFilterMatch(ctx context.Context, kws []string, topK int) ([]model.ProgramMatch, error) {
	programs, err := uc.repo.ProgramIndex().Filter(ctx, kws, keywordSearchLimit)
	if err != nil {
		return nil, goerr.Wrap(ErrIndexUnavailable, "keyword filter failed", goerr.V("cause", err))
	}

	candidates := make([]*model.ProgramCandidate, 0, len(programs))
	for _, p := range programs {
		text := p.SearchText()
		matched := 0
		for _, kw := range kws {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				matched++
			}
		}

		score := float64(matched) / float64(len(kws))
		if score < keywordFilterFloor {
			score = keywordFilterFloor
		}
		candidates = append(candidates, &model.ProgramCandidate{Program: p, Score: score})
	}

	return rankCandidates(candidates, topK), nil
}

// rankCandidates drops unnamed programs, deduplicates by program ID
// keeping the first (highest scoring) occurrence, clamps scores into
// [0, 1], and returns the topK in descending score order.
func rankCandidates(candidates []*model.ProgramCandidate, topK int) []model.ProgramMatch {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	seen := make(map[string]struct{}, len(candidates))
	matches := make([]model.ProgramMatch, 0, topK)
	for _, c := range candidates {
		if c.Program == nil || c.Program.Name == "" {
			continue
		}
		if _, ok := seen[c.Program.ID]; ok {
			continue
		}
		seen[c.Program.ID] = struct{}{}

		score := c.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		matches = append(matches, model.ProgramMatch{
			ProgramID:   c.Program.ID,
			Category:    c.Program.Category,
			Name:        c.Program.Name,
			Description: c.Program.Description,
			Link:        c.Program.Link,
			LifeSkills:  c.Program.LifeSkills,
			Similarity:  score,
		})
		if len(matches) >= topK {
			break
		}
	}

	return matches
}
