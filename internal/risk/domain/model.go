package domain

// Category is one of the fixed external risk categories.
type Category string

const (
	CategorySafetyAccident    Category = "SAFETY_ACCIDENT"
	CategoryLegalSanction     Category = "LEGAL_SANCTION"
	CategoryLaborDispute      Category = "LABOR_DISPUTE"
	CategoryEnvComplaint      Category = "ENV_COMPLAINT"
	CategoryFinanceLitigation Category = "FINANCE_LITIGATION"
)

// AllCategories lists the categories in their fixed enumeration order.
// Classification ties resolve to the earlier entry, so the order matters.
var AllCategories = []Category{
	CategorySafetyAccident,
	CategoryLegalSanction,
	CategoryLaborDispute,
	CategoryEnvComplaint,
	CategoryFinanceLitigation,
}

// IsValidCategory reports whether c is one of the fixed categories.
func IsValidCategory(c Category) bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// RiskLevel is the aggregated verdict for a vendor.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Vendor identifies a company to screen. Name is the identity used for
// alias lookup; the IDs are carried through untouched.
type Vendor struct {
	Name     string `json:"name"`
	BizNo    string `json:"biz_no,omitempty"`
	VendorID string `json:"vendor_id,omitempty"`
}

// SearchConfig controls external document collection.
type SearchConfig struct {
	Enabled    bool     `json:"enabled"`
	Query      string   `json:"query,omitempty"`
	MaxResults int      `json:"max_results"`
	Sources    []string `json:"sources"`
	Lang       string   `json:"lang,omitempty"`
}

// DefaultSearchConfig mirrors the request defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Enabled:    true,
		MaxResults: 20,
		Sources:    []string{"news", "gov", "court", "public_db"},
		Lang:       "en",
	}
}

// RetrievalConfig controls the optional semantic re-retrieval step.
type RetrievalConfig struct {
	Enabled   bool `json:"enabled"`
	TopK      int  `json:"top_k"`
	ChunkSize int  `json:"chunk_size"`
}

// DefaultRetrievalConfig mirrors the request defaults.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{Enabled: true, TopK: 6, ChunkSize: 800}
}

// Options are per-request behavior switches.
type Options struct {
	StrictGrounding    bool `json:"strict_grounding"`
	ReturnEvidenceText bool `json:"return_evidence_text"`
}

// Document is one collected external document. ID is a stable hash of the
// URL, so the same article collected twice (or by two providers) dedups.
type Document struct {
	ID          string `json:"doc_id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"` // YYYY-MM-DD, empty when unknown
	URL         string `json:"url"`
	Text        string `json:"text,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}

// RetrievalHit is one passage returned by the retrieval step. Metadata
// carries doc_id/title/source/url/published_at when the hit came from a
// collected Document.
type RetrievalHit struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Offset is a half-open [Start, End) character range into a source text.
type Offset struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// EvidenceItem is a grounded quote from a source document.
type EvidenceItem struct {
	DocID  string `json:"doc_id"`
	Source string `json:"source"`
	URL    string `json:"url"`
	Quote  string `json:"quote"`
	Offset Offset `json:"offset"`
}

// Signal is one classified, scored piece of evidence about a vendor.
type Signal struct {
	Category    Category       `json:"category"`
	Severity    int            `json:"severity"` // 0..5
	Score       float64        `json:"score"`    // severity * recency weight
	Title       string         `json:"title"`
	Summary     string         `json:"summary"`
	Why         string         `json:"why"`
	PublishedAt string         `json:"published_at"`
	Evidence    []EvidenceItem `json:"evidence"`
	Tags        []string       `json:"tags"` // up to 5 matched keywords
	IsEstimated bool           `json:"is_estimated"`
}

// RetrievalMeta records how documents and retrieval were used for a vendor.
type RetrievalMeta struct {
	SearchUsed    bool     `json:"search_used"`
	RetrievalUsed bool     `json:"retrieval_used"`
	DocsCount     int      `json:"docs_count"`
	TopSources    []string `json:"top_sources"`
}

// VendorResult is the per-vendor verdict.
type VendorResult struct {
	Vendor          Vendor        `json:"vendor"`
	RiskLevel       RiskLevel     `json:"external_risk_level"`
	TotalScore      float64       `json:"total_score"`
	DocsCount       int           `json:"docs_count"`
	ReasonLines     []string      `json:"reason_3lines"`
	Signals         []Signal      `json:"signals"`
	Recommendations []string      `json:"recommendations"`
	Disclaimer      string        `json:"disclaimer"`
	RetrievalMeta   RetrievalMeta `json:"retrieval_meta"`
}

// BatchResult holds one VendorResult per requested vendor, in input order.
type BatchResult struct {
	RunID   string         `json:"run_id"`
	Results []VendorResult `json:"results"`
}
