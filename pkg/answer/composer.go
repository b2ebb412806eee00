// Package answer turns a question plus retrieved government sources into a
// single chat-completion call.
package answer

import (
	"context"
	"fmt"
	"strings"

	"askgov-sg/internal/constant"
	"askgov-sg/pkg/llm"
	"askgov-sg/pkg/search"
	"askgov-sg/pkg/store"
)

// Composer produces the cited answer text for one question.
type Composer interface {
	Compose(ctx context.Context, query string, results []search.SearchResult, qctx store.QueryContext) (string, error)
}

type PromptComposer struct {
	provider        llm.LLMProvider
	includeSnippets bool
}

var _ Composer = (*PromptComposer)(nil)

// NewPromptComposer builds a composer. When includeSnippets is false only the
// title and URL of each source reach the model.
func NewPromptComposer(provider llm.LLMProvider, includeSnippets bool) *PromptComposer {
	return &PromptComposer{
		provider:        provider,
		includeSnippets: includeSnippets,
	}
}

// Compose issues exactly one deterministic completion and returns its text
// verbatim. There is no retry and no post-processing.
func (c *PromptComposer) Compose(ctx context.Context, query string, results []search.SearchResult, qctx store.QueryContext) (string, error) {
	messages := BuildMessages(query, FormatSources(results, c.includeSnippets), qctx)

	text, err := c.provider.Chat(ctx, messages,
		llm.WithTemperature(constant.AnswerTemperature),
		llm.WithMaxTokens(constant.AnswerMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAnswerUnavailable, err)
	}
	return text, nil
}

// FormatSources renders one "- [title](url)" line per result, in order.
func FormatSources(results []search.SearchResult, includeSnippets bool) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		line := fmt.Sprintf("- [%s](%s)", r.Title, r.URL)
		if includeSnippets && strings.TrimSpace(r.Snippet) != "" {
			line += "\n  > " + strings.Join(strings.Fields(r.Snippet), " ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// BuildMessages returns the fixed system instruction followed by the single
// user turn carrying location, need, question and sources.
func BuildMessages(query, sources string, qctx store.QueryContext) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: constant.AnswerSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(constant.AnswerUserPromptTemplate, qctx.Location, qctx.Need, query, sources)},
	}
}
