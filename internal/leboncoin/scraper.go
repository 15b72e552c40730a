// Package leboncoin scrapes real-estate classifieds from the leboncoin.fr
// search page. It is optional and disabled by default.
package leboncoin

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"resty.dev/v3"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/ratelimit"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	notFound  = "N/A"

	// real estate category on the search page
	categoryRealEstate = "9"
)

var (
	surfacePattern = regexp.MustCompile(`(\d+)\s*m²`)
	roomsPattern   = regexp.MustCompile(`(\d+)\s*pièce`)
)

// Criteria holds the search filters
type Criteria struct {
	Location string
	ZipCode  string
	// PropertyType is 1 for apartments, 2 for houses
	PropertyType int
	MaxPrice     int
	MinSurface   int
	MaxSurface   int
	Limit        int
}

// Options configures the scraper
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Criteria Criteria
	Limiter  *ratelimit.Limiter
}

// Adapter yields listings parsed from the search results page
type Adapter struct {
	baseURL  string
	criteria Criteria
	client   *resty.Client
	limiter  *ratelimit.Limiter
}

// New creates a leboncoin scraper
func New(opts Options) *Adapter {
	client := fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("Accept-Language", "fr-FR,fr;q=0.9").
		SetHeader("User-Agent", userAgent)

	return &Adapter{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		criteria: opts.Criteria,
		client:   client,
		limiter:  opts.Limiter,
	}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string { return "leboncoin" }

// searchQuery returns the query string of the search page
func (a *Adapter) searchQuery() string {
	c := a.criteria
	var b strings.Builder
	b.WriteString("category=" + categoryRealEstate)
	b.WriteString("&locations=" + url.QueryEscape(c.Location) + "_" + url.QueryEscape(c.ZipCode))
	fmt.Fprintf(&b, "&real_estate_type=%d", c.PropertyType)
	fmt.Fprintf(&b, "&price=min-%d", c.MaxPrice)
	fmt.Fprintf(&b, "&square=%d-%d", c.MinSurface, c.MaxSurface)
	return b.String()
}

// SearchURL is the public search page for the configured criteria
func (a *Adapter) SearchURL() string {
	return a.baseURL + "/recherche?" + a.searchQuery()
}

// Fetch implements fetcher.Adapter
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	if err := a.limiter.Wait(ctx, ratelimit.APILeboncoin); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryString(a.searchQuery()).
		Get("/recherche")

	body, err := fetcher.Body(resp, err)
	if err != nil {
		return nil, err
	}

	return Parse(body, a.baseURL, a.criteria.Limit)
}

// Parse extracts listings from a search results page. Relative links are
// resolved against baseURL. limit <= 0 keeps every listing.
func Parse(page []byte, baseURL string, limit int) ([]domain.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fetcher.NewMalformedError("parse search page: " + err.Error())
	}

	base, _ := url.Parse(baseURL)
	var records []domain.Record

	doc.Find(`[data-qa-id="aditem_container"]`).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		rec := domain.ListingRecord{
			Title:    text(item, `[data-qa-id="aditem_title"]`),
			Price:    text(item, `[data-qa-id="aditem_price"]`),
			Location: text(item, `[data-qa-id="aditem_location"]`),
			Posted:   text(item, `[data-qa-id="aditem_date"]`),
			URL:      "#",
		}

		// the container is often the anchor itself
		href, ok := item.Attr("href")
		if !ok {
			href, ok = item.Find("a[href]").First().Attr("href")
		}
		if ok {
			rec.URL = resolve(base, href)
		}

		details := item.Find(`[data-qa-id="aditem_details"]`).Text()
		if m := surfacePattern.FindStringSubmatch(details); m != nil {
			rec.Surface = m[1] + "m²"
		}
		if m := roomsPattern.FindStringSubmatch(details); m != nil {
			rec.Rooms = m[1] + " pièces"
			if m[1] == "1" {
				rec.Rooms = "1 pièce"
			}
		}

		records = append(records, rec)
		return limit <= 0 || len(records) < limit
	})

	return records, nil
}

func text(s *goquery.Selection, selector string) string {
	t := strings.Join(strings.Fields(s.Find(selector).First().Text()), " ")
	if t == "" {
		return notFound
	}
	return t
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
