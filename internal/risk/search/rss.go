package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

const (
	// feedTimeout bounds each individual feed fetch.
	feedTimeout = 8 * time.Second

	// maxFeeds caps how many feeds one collection touches, general and
	// per-term combined, to bound fallback latency.
	maxFeeds = 3
)

// generalFeeds are always-on business-news feeds tried before the
// per-term search feeds.
var generalFeeds = []string{
	"https://feeds.bbci.co.uk/news/business/rss.xml",
	"https://www.ft.com/companies?format=rss",
}

// FeedClient is the secondary, feed-based document provider.
type FeedClient struct {
	http  *http.Client
	feeds []string
}

// NewFeedClient builds the secondary provider. Passing feeds overrides
// the built-in general feed list (used by tests).
func NewFeedClient(feeds ...string) *FeedClient {
	if len(feeds) == 0 {
		feeds = generalFeeds
	}
	return &FeedClient{
		http:  &http.Client{Timeout: feedTimeout},
		feeds: feeds,
	}
}

// rssFeed models the subset of RSS 2.0 we read. The pack carries no feed
// library and the feeds we touch are plain RSS, so stdlib XML is enough.
type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// termFeedURL builds a per-term news search feed.
func termFeedURL(term string) string {
	return "https://news.google.com/rss/search?q=" + url.QueryEscape(term)
}

// Collect fetches documents from the general feeds plus per-term search
// feeds, capped at maxFeeds total. Each feed has its own timeout; fetch
// or parse failures are logged and skipped. Collection stops early once
// maxResults documents are gathered.
func (c *FeedClient) Collect(ctx context.Context, terms []string, maxResults int) ([]domain.Document, error) {
	if maxResults <= 0 {
		maxResults = 20
	}

	feeds := make([]string, 0, maxFeeds)
	feeds = append(feeds, c.feeds...)
	for _, t := range terms {
		if len(feeds) >= maxFeeds {
			break
		}
		feeds = append(feeds, termFeedURL(t))
	}
	if len(feeds) > maxFeeds {
		feeds = feeds[:maxFeeds]
	}

	var docs []domain.Document
	seen := make(map[string]struct{})

	for _, feedURL := range feeds {
		if len(docs) >= maxResults {
			break
		}
		items, err := c.fetchFeed(ctx, feedURL)
		if err != nil {
			log.Printf("[search] feed skipped url=%s err=%v", feedURL, err)
			continue
		}

		host := DomainFromURL(feedURL)
		for _, it := range items {
			if len(docs) >= maxResults {
				break
			}
			link := strings.TrimSpace(it.Link)
			if link == "" {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}

			title := strings.TrimSpace(it.Title)
			if title == "" {
				title = "untitled"
			}

			docs = append(docs, domain.Document{
				ID:          HashID(link),
				Title:       title,
				Source:      host,
				PublishedAt: feedDateToYMD(it.PubDate),
				URL:         link,
				Snippet:     title,
			})
		}
	}
	return docs, nil
}

func (c *FeedClient) fetchFeed(ctx context.Context, feedURL string) ([]rssItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch: status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("feed parse: %w", err)
	}
	return feed.Channel.Items, nil
}

// feedDateLayouts covers the pubDate formats seen in the wild; anything
// else degrades to an unknown (empty) date.
var feedDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02",
}

func feedDateToYMD(pub string) string {
	s := strings.TrimSpace(pub)
	if s == "" {
		return ""
	}
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return ""
}
