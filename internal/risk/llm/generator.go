package llm

import "context"

// Generator is the generative-text capability consumed by the summarizer.
// Implementations must respect ctx deadlines; callers always have a
// deterministic fallback, so a Generator is allowed to fail.
type Generator interface {
	// Available reports whether the capability is configured and usable.
	Available() bool

	// Generate produces text for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Disabled is the null Generator selected when no LLM is configured.
type Disabled struct{}

func (Disabled) Available() bool { return false }

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
