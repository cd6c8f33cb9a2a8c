package reports

import (
	"context"
	"fmt"
	"strings"

	"workforce/internal/platform/llm"
)

type Narrator interface {
	Narrate(ctx context.Context, r Report) (string, error)
}

const narrativeSystemPrompt = "You are a workforce analytics consultant. Rewrite the supplied KPI findings as one concise " +
	"executive paragraph for a client audience. Use only the facts given. Do not invent figures."

// LLMNarrator asks a hosted model for a polished summary paragraph.
type LLMNarrator struct {
	Provider    llm.Provider
	MaxTokens   int
	Temperature float64
}

func NewLLMNarrator(provider llm.Provider) *LLMNarrator {
	return &LLMNarrator{Provider: provider, MaxTokens: 400, Temperature: 0.3}
}

func (n *LLMNarrator) Narrate(ctx context.Context, r Report) (string, error) {
	out, err := n.Provider.Complete(ctx, narrativeSystemPrompt, NarrativePrompt(r), n.MaxTokens, n.Temperature)
	if err != nil {
		return "", fmt.Errorf("narrative: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("narrative: empty response")
	}
	return out, nil
}

// NarrativePrompt lists the deterministic findings the model may draw on.
func NarrativePrompt(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Client: %s\n", r.Client.Name)
	if r.Client.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", r.Client.Industry)
	}
	fmt.Fprintf(&b, "Overall score: %d (grade %s, %s)\n", r.Scores.OverallScore, r.Scores.OverallGrade, r.ExecutiveSummary.Band)
	b.WriteString("Metrics:\n")
	for _, s := range r.Scores.Ordered() {
		if !s.Calculated() {
			fmt.Fprintf(&b, "- %s: not calculated (%s)\n", s.Name, s.Error)
			continue
		}
		fmt.Fprintf(&b, "- %s: %s, score %d, grade %s\n", s.Name, s.Formatted, s.Score, s.Grade)
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", rec.Priority, rec.Area, rec.Recommendation)
		}
	}
	fmt.Fprintf(&b, "Summary: %s\n", r.ExecutiveSummary.Text())
	return b.String()
}
