package analyze

import (
	"regexp"
	"strings"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

// categoryKeywords drive the rule-based classifier. Hit counting is plain
// case-insensitive substring matching over normalized text.
var categoryKeywords = map[domain.Category][]string{
	domain.CategorySafetyAccident: {
		"accident", "fatality", "injury", "explosion", "collapse",
		"fire", "safety violation", "workplace death",
	},
	domain.CategoryLegalSanction: {
		"sanction", "penalty", "fine", "indictment", "prosecution",
		"violation", "administrative order", "regulatory action",
	},
	domain.CategoryLaborDispute: {
		"strike", "union", "walkout", "unpaid wages", "wrongful dismissal",
		"labor dispute", "collective bargaining",
	},
	domain.CategoryEnvComplaint: {
		"pollution", "emission", "spill", "leak", "contamination",
		"wastewater", "environmental complaint", "odor",
	},
	domain.CategoryFinanceLitigation: {
		"bankruptcy", "insolvency", "lawsuit", "default", "receivership",
		"debt", "liquidity", "litigation",
	},
}

const maxTags = 5

// ClassifyResult is the outcome of classifying one text passage.
type ClassifyResult struct {
	Category domain.Category
	Severity int // 0..5, keyword hit count capped at 5
	Tags     []string
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText lowercases and collapses whitespace so keyword matching is
// insensitive to formatting.
func NormalizeText(text string) string {
	t := strings.ToLower(text)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(t, " "))
}

// Classify assigns a category and severity to a text passage. Categories
// are scanned in their fixed enumeration order restricted to allowed; the
// winner is the first category with a strictly greater hit count than the
// running best, so ties keep the earlier category. Zero hits everywhere
// still returns the first allowed category, at severity 0 with no tags.
func Classify(text string, allowed []domain.Category) ClassifyResult {
	if len(allowed) == 0 {
		allowed = domain.AllCategories
	}
	t := NormalizeText(text)

	best := ClassifyResult{Category: allowed[0]}
	bestHits := 0

	for _, cat := range allowed {
		hits := 0
		var matched []string
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(t, kw) {
				hits++
				if len(matched) < maxTags {
					matched = append(matched, kw)
				}
			}
		}
		if hits > bestHits {
			bestHits = hits
			best.Category = cat
			best.Tags = matched
		}
	}

	best.Severity = bestHits
	if best.Severity > 5 {
		best.Severity = 5
	}
	return best
}

// KeywordsFor exposes a category's keyword list (for query building).
func KeywordsFor(cat domain.Category) []string {
	return categoryKeywords[cat]
}
