package analyze

import "strings"

const (
	// quoteLeadIn is how far the evidence window starts before the
	// matched keyword, so the quote carries context.
	quoteLeadIn     = 60
	DefaultQuoteLen = 200
)

// ExtractQuote locates the first tag (in list order) in text and returns a
// bounded quote window with its character offsets. The window starts 60
// characters before the match, clamped to the text bounds, and spans at
// most maxLen characters. With no tag match (or no tags) the leading
// substring is returned; empty text yields an empty quote at [0,0).
//
// The quote is always an exact substring of text, never synthesized.
func ExtractQuote(text string, tags []string, maxLen int) (quote string, start, end int) {
	if text == "" {
		return "", 0, 0
	}
	if maxLen <= 0 {
		maxLen = DefaultQuoteLen
	}

	lower := strings.ToLower(text)
	for _, tag := range tags {
		idx := strings.Index(lower, strings.ToLower(tag))
		if idx < 0 {
			continue
		}
		start = idx - quoteLeadIn
		if start < 0 {
			start = 0
		}
		end = start + maxLen
		if end > len(text) {
			end = len(text)
		}
		return text[start:end], start, end
	}

	end = maxLen
	if end > len(text) {
		end = len(text)
	}
	return text[:end], 0, end
}
