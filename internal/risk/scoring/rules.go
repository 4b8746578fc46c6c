package scoring

import (
	"strings"
	"time"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

// Recency weights by document age. Documents with no parseable date get
// the moderate weight rather than being dropped.
const (
	weightRecent   = 1.5 // <= 30 days
	weightCurrent  = 1.0 // <= 90 days
	weightAging    = 0.7 // <= 180 days, also the unknown-date weight
	weightStale    = 0.4 // older
	WeightUnknown  = weightAging
	levelHighFloor = 10.0
	levelMedFloor  = 5.0
)

// acceptedDateLayouts are tried in order when parsing published dates.
var acceptedDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"20060102T150405Z",
}

// ParsePublishedAt parses a published-date string in one of the accepted
// formats. Returns the zero time and false when nothing matches.
func ParsePublishedAt(s string) (time.Time, bool) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// RecencyWeight converts a published date into a decay weight relative to
// now (UTC). Unparseable or missing dates weigh 0.7: old-but-unknown is
// still a signal, just a damped one.
func RecencyWeight(publishedAt string, now time.Time) float64 {
	dt, ok := ParsePublishedAt(publishedAt)
	if !ok {
		return WeightUnknown
	}

	days := int(now.UTC().Sub(dt).Hours() / 24)
	switch {
	case days <= 30:
		return weightRecent
	case days <= 90:
		return weightCurrent
	case days <= 180:
		return weightAging
	default:
		return weightStale
	}
}

// TotalScore sums the per-signal scores for a vendor.
func TotalScore(signals []domain.Signal) float64 {
	total := 0.0
	for _, s := range signals {
		total += s.Score
	}
	return total
}

// LevelFromTotal maps a total score to a risk level. Thresholds are
// inclusive lower bounds.
func LevelFromTotal(total float64) domain.RiskLevel {
	if total >= levelHighFloor {
		return domain.RiskHigh
	}
	if total >= levelMedFloor {
		return domain.RiskMedium
	}
	return domain.RiskLow
}
