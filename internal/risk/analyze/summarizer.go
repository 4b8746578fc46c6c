package analyze

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
	"github.com/vendorwatch/risk-backend/internal/risk/llm"
)

const (
	// weakEvidenceLen marks evidence as thin: below this many trimmed
	// characters a summary is an estimate, not a grounded statement.
	weakEvidenceLen = 40

	// snippetLen is the deterministic summary length.
	snippetLen = 180

	// promptTextLimit caps how much source text goes into the LLM prompt.
	promptTextLimit = 2500

	estimatedPrefix = "estimated"
)

// SummaryResult is a grounded 2-3 sentence summary plus a one-line
// rationale quoted from the source.
type SummaryResult struct {
	Summary     string
	Why         string
	IsEstimated bool
}

// Summarizer produces grounded summaries, delegating to a generative-text
// capability when one is configured and always falling back to a
// deterministic snippet path.
type Summarizer struct {
	gen llm.Generator
}

func NewSummarizer(gen llm.Generator) *Summarizer {
	if gen == nil {
		gen = llm.Disabled{}
	}
	return &Summarizer{gen: gen}
}

var (
	reSummaryLine   = regexp.MustCompile(`(?m)^summary:\s*(.+)$`)
	reWhyLine       = regexp.MustCompile(`(?m)^why:\s*(.+)$`)
	reEstimatedLine = regexp.MustCompile(`(?mi)^is_estimated:\s*(true|false)\s*$`)
)

// Summarize builds the summary for one passage. Empty text returns the
// fixed insufficient-evidence estimate. Any failure of the generative
// capability falls through to the deterministic path.
func (s *Summarizer) Summarize(ctx context.Context, text string, category domain.Category, severity int, strictGrounding bool) SummaryResult {
	base := strings.TrimSpace(text)
	if base == "" {
		return SummaryResult{
			Summary:     "estimated: insufficient external evidence for this vendor.",
			Why:         "insufficient evidence (estimated)",
			IsEstimated: true,
		}
	}

	weak := len(base) < weakEvidenceLen

	if s.gen.Available() {
		if res, err := s.generate(ctx, base, category, severity, weak); err == nil {
			res.Summary = prefixIfEstimated(strictGrounding, res.IsEstimated, res.Summary)
			return res
		} else {
			log.Printf("[summarize] llm fallback: %v", err)
		}
	}

	snippet := leadingSnippet(base, snippetLen)
	isEstimated := weak && strictGrounding
	summary := fmt.Sprintf("Possible %s external risk signal. %s", category, snippet)
	summary = prefixIfEstimated(strictGrounding, isEstimated, summary)

	return SummaryResult{Summary: summary, Why: snippet, IsEstimated: isEstimated}
}

// generate runs the constrained LLM prompt and parses its line-oriented
// reply. The prompt forbids facts absent from the input text and demands
// an explicit estimation flag.
func (s *Summarizer) generate(ctx context.Context, text string, category domain.Category, severity int, weak bool) (SummaryResult, error) {
	prompt := fmt.Sprintf(
		"You summarize external risk evidence about a vendor.\n"+
			"Rules:\n"+
			"- Never state facts that are absent from the input text.\n"+
			"- If you are estimating, say so explicitly.\n"+
			"- category=%s, severity=%d\n\n"+
			"Summarize the text below in 2-3 sentences, and quote one sentence\n"+
			"from it verbatim as the rationale.\n"+
			"Reply exactly in this format:\n"+
			"summary: ...\n"+
			"why: ...\n"+
			"is_estimated: true/false\n\n"+
			"Text:\n%s",
		category, severity, leadingSnippet(text, promptTextLimit))

	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return SummaryResult{}, err
	}

	res := SummaryResult{
		Summary:     leadingSnippet(text, snippetLen),
		Why:         leadingSnippet(text, snippetLen),
		IsEstimated: weak,
	}
	if m := reSummaryLine.FindStringSubmatch(out); m != nil {
		res.Summary = strings.TrimSpace(m[1])
	}
	if m := reWhyLine.FindStringSubmatch(out); m != nil {
		res.Why = strings.TrimSpace(m[1])
	}
	if m := reEstimatedLine.FindStringSubmatch(out); m != nil {
		res.IsEstimated = strings.EqualFold(m[1], "true")
	}
	return res, nil
}

// prefixIfEstimated marks estimated summaries under strict grounding,
// unless the text already carries the marker.
func prefixIfEstimated(strict, isEstimated bool, summary string) string {
	if strict && isEstimated && !strings.HasPrefix(strings.ToLower(summary), estimatedPrefix) {
		return "estimated: " + summary
	}
	return summary
}

func leadingSnippet(text string, n int) string {
	t := strings.ReplaceAll(text, "\n", " ")
	if len(t) > n {
		t = t[:n]
	}
	return t
}
