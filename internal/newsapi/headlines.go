// Package newsapi reads headlines from NewsAPI.org.
package newsapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/ratelimit"
)

// removedTitle marks articles withdrawn by the publisher
const removedTitle = "[Removed]"

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type response struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

// Section selects the headlines for one news domain. A non-empty Query uses the
// everything endpoint; otherwise top headlines are filtered by Category and
// Country.
type Section struct {
	Query    string
	Category string
	Language string
	Country  string
}

// Options configures the adapter
type Options struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	Section      Section
	MaxArticles  int
	Placeholders []string
	Limiter      *ratelimit.Limiter
}

// Adapter yields NewsItems for one section
type Adapter struct {
	apiKey       string
	section      Section
	max          int
	placeholders []string
	client       *resty.Client
	limiter      *ratelimit.Limiter
}

// New creates a NewsAPI adapter
func New(opts Options) *Adapter {
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = 5
	}
	client := fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout).
		SetHeader("X-Api-Key", opts.APIKey)

	return &Adapter{
		apiKey:       opts.APIKey,
		section:      opts.Section,
		max:          opts.MaxArticles,
		placeholders: opts.Placeholders,
		client:       client,
		limiter:      opts.Limiter,
	}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string { return "newsapi" }

func (a *Adapter) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	if fetcher.IsPlaceholderCredential(a.apiKey, a.placeholders) {
		return nil, fetcher.NewCredentialError("newsapi")
	}
	if err := a.limiter.Wait(ctx, ratelimit.APINewsAPI); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	query := make(map[string]string, len(params))
	for k, v := range params {
		if v != "" {
			query[k] = v
		}
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)

	return fetcher.Body(resp, err)
}

// Raw returns the top-headlines body for the given filters. language defaults
// to "fr".
func (a *Adapter) Raw(ctx context.Context, query, category, language string) ([]byte, error) {
	if language == "" {
		language = "fr"
	}
	return a.get(ctx, "/top-headlines", map[string]string{
		"q":        query,
		"category": category,
		"language": language,
	})
}

// Fetch implements fetcher.Adapter
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	s := a.section
	pageSize := strconv.Itoa(max(a.max*2, 10))

	var body []byte
	var err error
	if s.Query != "" {
		body, err = a.get(ctx, "/everything", map[string]string{
			"q":        s.Query,
			"language": s.Language,
			"sortBy":   "publishedAt",
			"pageSize": pageSize,
		})
	} else {
		body, err = a.get(ctx, "/top-headlines", map[string]string{
			"category": s.Category,
			"country":  s.Country,
			"language": s.Language,
			"pageSize": pageSize,
		})
	}
	if err != nil {
		return nil, err
	}

	return Parse(body, a.max)
}

// Parse converts a NewsAPI body into at most limit NewsItems. A body without
// articles is malformed.
func Parse(body []byte, limit int) ([]domain.Record, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fetcher.NewMalformedError("decode newsapi response: " + err.Error())
	}
	if resp.Status != "ok" {
		return nil, fetcher.NewMalformedError("newsapi " + resp.Code + ": " + resp.Message)
	}
	if len(resp.Articles) == 0 {
		return nil, fetcher.NewMalformedError("newsapi returned no articles")
	}

	records := make([]domain.Record, 0, min(limit, len(resp.Articles)))
	for _, art := range resp.Articles {
		title := strings.TrimSpace(art.Title)
		if title == "" || title == removedTitle {
			continue
		}

		item := domain.NewsItem{
			Title:       title,
			Description: art.Description,
			Source:      art.Source.Name,
			URL:         art.URL,
		}
		if item.Description == "" {
			item.Description = domain.Excerpt(art.Content)
		}
		if ts, err := time.Parse(time.RFC3339, art.PublishedAt); err == nil {
			item.PublishedAt = &ts
		}

		records = append(records, item)
		if len(records) == limit {
			break
		}
	}
	return records, nil
}
