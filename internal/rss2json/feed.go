// Package rss2json reads RSS feeds through the rss2json.com converter. It is the
// secondary source for every news section.
package rss2json

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"resty.dev/v3"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/ratelimit"
)

const pubDateLayout = "2006-01-02 15:04:05"

type item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	GUID        string `json:"guid"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Feed    struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"feed"`
	Items []item `json:"items"`
}

// Options configures the adapter
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	FeedURL     string
	MaxArticles int
	Limiter     *ratelimit.Limiter
}

// Adapter yields NewsItems from one RSS feed
type Adapter struct {
	feedURL string
	max     int
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// New creates an rss2json adapter for one feed
func New(opts Options) *Adapter {
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = 5
	}
	return &Adapter{
		feedURL: opts.FeedURL,
		max:     opts.MaxArticles,
		client:  fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout),
		limiter: opts.Limiter,
	}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string { return "rss2json" }

// Fetch implements fetcher.Adapter
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	if a.feedURL == "" {
		return nil, fetcher.NewMalformedError("no feed configured")
	}
	if err := a.limiter.Wait(ctx, ratelimit.APIRSS2JSON); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"rss_url": a.feedURL,
			"count":   "10",
		}).
		Get("/api.json")

	body, err := fetcher.Body(resp, err)
	if err != nil {
		return nil, err
	}

	var feed response
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fetcher.NewMalformedError("decode rss2json response: " + err.Error())
	}
	if feed.Status != "ok" {
		return nil, fetcher.NewMalformedError("rss parsing error: " + feed.Message)
	}

	source := StripHTML(feed.Feed.Title)
	records := make([]domain.Record, 0, min(a.max, len(feed.Items)))
	for _, it := range feed.Items {
		title := StripHTML(it.Title)
		if title == "" {
			continue
		}

		news := domain.NewsItem{
			Title:       title,
			Description: domain.Excerpt(StripHTML(it.Description)),
			Source:      source,
			URL:         link(it),
		}
		if ts, err := time.Parse(pubDateLayout, it.PubDate); err == nil {
			news.PublishedAt = &ts
		}

		records = append(records, news)
		if len(records) == a.max {
			break
		}
	}
	return records, nil
}

func link(it item) string {
	switch {
	case it.Link != "":
		return it.Link
	case strings.HasPrefix(it.GUID, "http"):
		return it.GUID
	default:
		return "#"
	}
}

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed. Entities are decoded.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
