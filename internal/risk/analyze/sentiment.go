package analyze

import (
	"strings"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

// Keyword sets for the coarse negative/positive document partition. Hard
// negatives stay risk-relevant even when positive context co-exists;
// positive overrides (CSR, sponsorship coverage) suppress weak negatives.
var (
	negativeStrongKeywords = []string{
		// safety / environment
		"accident", "fatality", "injury", "fire", "explosion", "collapse",
		"pollution", "spill", "leak", "contamination", "violation",
		// legal / compliance
		"indictment", "prosecution", "investigation", "raid", "verdict",
		"fine", "penalty", "sanction", "suspension", "license revoked",
		// labor / governance
		"strike", "dispute", "dismissal", "unpaid wages", "harassment",
		"embezzlement", "bribery", "corruption", "fraud", "collusion",
		// product
		"recall", "defect",
	}

	hardNegativeKeywords = []string{
		"fatality", "explosion", "collapse", "indictment", "prosecution",
		"bribery", "corruption", "license revoked",
	}

	positiveOverrideKeywords = []string{
		"scholarship", "donation", "sponsorship", "charity", "volunteer",
		"community program",
	}
)

// SplitBySentiment partitions documents into risk-negative and
// non-negative sets based on title+snippet+source+url keywords. It is a
// cheap false-positive damper run before classification: the negative set
// is handled first so the signal cap keeps risk-relevant items.
func SplitBySentiment(docs []domain.Document) (negative, nonNegative []domain.Document) {
	for _, d := range docs {
		hay := strings.ToLower(strings.Join([]string{d.Title, d.Snippet, d.Source, d.URL}, " "))

		hasHardNeg := containsAny(hay, hardNegativeKeywords)
		hasNegStrong := containsAny(hay, negativeStrongKeywords)
		hasPosOverride := containsAny(hay, positiveOverrideKeywords)

		switch {
		case hasHardNeg:
			negative = append(negative, d)
		case hasNegStrong && !hasPosOverride:
			negative = append(negative, d)
		default:
			nonNegative = append(nonNegative, d)
		}
	}
	return negative, nonNegative
}

func containsAny(hay string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(hay, k) {
			return true
		}
	}
	return false
}
