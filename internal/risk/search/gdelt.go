package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

const (
	defaultGDELTBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

	// gdeltTimeout is the hard per-call timeout for the primary provider,
	// independent of any higher-level deadline.
	gdeltTimeout = 10 * time.Second
)

// GDELTClient queries the GDELT Doc 2.1 article API (keyless, public).
type GDELTClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewGDELTClient builds the primary provider client. An empty baseURL
// selects the public endpoint.
func NewGDELTClient(baseURL string) *GDELTClient {
	if baseURL == "" {
		baseURL = defaultGDELTBaseURL
	}
	return &GDELTClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: gdeltTimeout},
		// GDELT throttles aggressive callers; stay well under.
		limiter: rate.NewLimiter(2, 4),
	}
}

// gdeltArticle is the subset of the ArtList response we consume.
type gdeltArticle struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	SeenDate string `json:"seendate"`
	Snippet  string `json:"snippet"`
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

// sourceLangCodes maps request language hints to GDELT sourcelang codes.
var sourceLangCodes = map[string]string{"en": "eng", "ko": "kor", "ja": "jpn", "de": "deu", "fr": "fra"}

// Search runs one article query over the trailing time window. Non-2xx
// statuses and non-JSON bodies are errors; the collector treats them as a
// fall-through to the secondary provider.
func (c *GDELTClient) Search(ctx context.Context, query string, windowDays, maxResults int, lang string) ([]domain.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gdelt rate limiter: %w", err)
	}

	if windowDays <= 0 {
		windowDays = 90
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	if code, ok := sourceLangCodes[strings.ToLower(lang)]; ok {
		query += " sourcelang:" + code
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "ArtList")
	params.Set("format", "json")
	params.Set("maxrecords", strconv.Itoa(maxResults))
	params.Set("startdatetime", start.Format("20060102150405"))
	params.Set("enddatetime", end.Format("20060102150405"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gdelt request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gdelt search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gdelt search: status %d", resp.StatusCode)
	}

	var data gdeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("gdelt decode: %w", err)
	}

	docs := make([]domain.Document, 0, len(data.Articles))
	seen := make(map[string]struct{})
	for _, a := range data.Articles {
		articleURL := strings.TrimSpace(a.URL)
		if articleURL == "" {
			continue
		}
		if _, dup := seen[articleURL]; dup {
			continue
		}
		seen[articleURL] = struct{}{}

		title := strings.TrimSpace(a.Title)
		if title == "" {
			title = "untitled"
		}
		snippet := strings.TrimSpace(a.Snippet)
		if snippet == "" {
			snippet = title
		}

		docs = append(docs, domain.Document{
			ID:          HashID(articleURL),
			Title:       title,
			Source:      DomainFromURL(articleURL),
			PublishedAt: gdeltDateToYMD(a.SeenDate),
			URL:         articleURL,
			Snippet:     snippet,
		})
	}
	return docs, nil
}

// HashID derives the stable document ID from a URL. Deterministic so the
// same article dedups across providers and across calls.
func HashID(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:16]
}

// DomainFromURL extracts the host (minus a leading "www.") as the source
// name; "unknown" when the URL does not parse.
func DomainFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// gdeltDateToYMD converts GDELT's YYYYMMDDHHMMSS stamp to YYYY-MM-DD.
// Unparseable stamps yield an empty date (unknown).
func gdeltDateToYMD(seendate string) string {
	s := strings.TrimSpace(seendate)
	if len(s) < 14 {
		return ""
	}
	t, err := time.Parse("20060102150405", s[:14])
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
