// Package keywords extracts program-matching keywords from note text.
// The primary path asks the LLM for themed keywords; when the LLM is
// unavailable or returns nothing usable, a deterministic frequency
// based extractor takes over.
package keywords

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/m-mizutani/gollem"

	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

const (
	maxKeywords = 15
	minKeywords = 5
)

const systemPrompt = `You are an expert at analyzing caregiver notes and extracting relevant keywords, concepts, and themes that relate to life skills, activities, and program areas for individuals with disabilities.

Extract keywords that would help match this note to relevant programs. Focus on:
- Life skills mentioned (e.g., cooking, hygiene, communication, social interaction)
- Activities described (e.g., meal preparation, group activities, exercise)
- Skills being worked on (e.g., following directions, turn-taking, independence)
- Areas of need or interest (e.g., daily living, social skills, communication)
- Specific behaviors or goals mentioned`

type Service struct {
	llmClient gollem.LLMClient
}

func New(llmClient gollem.LLMClient) *Service {
	return &Service{llmClient: llmClient}
}

type extractResult struct {
	Keywords []string `json:"keywords"`
}

// Extract returns keywords for the given note text. It never fails:
// any LLM error or empty response falls back to FallbackExtract.
func (s *Service) Extract(ctx context.Context, noteText string) []string {
	if s.llmClient == nil {
		return FallbackExtract(noteText)
	}

	extracted, err := s.extractWithLLM(ctx, noteText)
	if err != nil || len(extracted) == 0 {
		logging.From(ctx).Warn("keyword extraction fell back to frequency based extractor",
			slog.Any("error", err),
		)
		return FallbackExtract(noteText)
	}

	if len(extracted) > maxKeywords {
		extracted = extracted[:maxKeywords]
	}
	return extracted
}

func (s *Service) extractWithLLM(ctx context.Context, noteText string) ([]string, error) {
	schema := &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"keywords": {
				Type:        gollem.TypeArray,
				Description: "5-15 keywords or short phrases for program matching",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
		},
	}

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Extract keywords from this caregiver note that would help match it to relevant programs:

%s

Include both specific terms and broader concepts. Focus on actionable skills and life domains. Return between %d and %d keywords.`,
		noteText, minKeywords, maxKeywords)

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, err
	}
	if len(resp.Texts) == 0 {
		return nil, nil
	}

	var result extractResult
	if err := json.Unmarshal([]byte(resp.Texts[0]), &result); err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, kw := range result.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords, nil
}

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// FallbackExtract is the deterministic extractor: frequency-ranked
// content words plus repeated two-word phrases, capped at maxKeywords.
// The same text always yields the same keywords in the same order.
func FallbackExtract(noteText string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(noteText), " ")

	words := make([]string, 0)
	for _, w := range strings.Fields(cleaned) {
		if len(w) > 2 && !stopWords[w] {
			words = append(words, w)
		}
	}

	wordFreq := make(map[string]int)
	for _, w := range words {
		wordFreq[w]++
	}

	keywords := make([]string, 0, len(wordFreq))
	for w, freq := range wordFreq {
		if freq >= 2 || len(w) > 5 {
			keywords = append(keywords, w)
		}
	}
	sortByFreq(keywords, wordFreq)
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	phraseFreq := make(map[string]int)
	for i := 0; i+1 < len(words); i++ {
		phrase := words[i] + " " + words[i+1]
		if len(phrase) > 5 {
			phraseFreq[phrase]++
		}
	}
	phrases := make([]string, 0, len(phraseFreq))
	for p, freq := range phraseFreq {
		if freq >= 2 {
			phrases = append(phrases, p)
		}
	}
	sortByFreq(phrases, phraseFreq)

	for _, p := range phrases {
		if len(keywords) >= maxKeywords {
			break
		}
		keywords = append(keywords, p)
	}

	return keywords
}

// sortByFreq orders by descending frequency, then lexicographically so
// ties resolve the same way on every run.
func sortByFreq(items []string, freq map[string]int) {
	sort.Slice(items, func(i, j int) bool {
		if freq[items[i]] != freq[items[j]] {
			return freq[items[i]] > freq[items[j]]
		}
		return items[i] < items[j]
	})
}

var stopWords = func() map[string]bool {
	list := []string{
		"the", "and", "but", "for", "with", "are", "was", "were", "been", "being",
		"have", "has", "had", "does", "did", "will", "would", "should", "could",
		"may", "might", "must", "can", "this", "that", "these", "those",
		"you", "she", "his", "her", "its", "our", "their", "your",
		"very", "really", "quite", "just", "only", "also", "too", "than", "more", "most",
		"from", "into", "onto", "upon", "about", "above", "below", "between", "among",
		"through", "during", "before", "after", "while", "when", "where", "why", "how",
		"what", "which", "who", "whom", "not", "yes", "all", "each", "every", "some",
		"any", "many", "much", "few", "little", "one", "two", "three", "first", "second",
		"last", "next", "previous", "other", "another", "well", "good", "bad", "better",
		"best", "worse", "worst", "big", "small", "large", "new", "old", "young", "same",
		"different", "long", "short", "high", "low", "early", "late", "today", "yesterday",
		"tomorrow", "now", "then", "here", "there", "everywhere", "somewhere",
		"out", "off", "over", "under", "again", "further", "once",
		"said", "says", "say", "get", "got", "went", "come", "came", "see", "saw",
		"know", "knew", "think", "thought", "take", "took", "make", "made", "give",
		"gave", "find", "found", "tell", "told", "ask", "asked", "work", "worked",
		"try", "tried", "use", "used", "need", "needed", "want", "wanted", "like",
		"liked", "help", "helped", "show", "showed", "move", "moved", "live", "lived",
		"believe", "believed",
	}
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}()
