package rentcast

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/ratelimit"
)

const sqftToSquareMeters = 0.09290304

// Listing represents one entry of the Rentcast sale listings response
type Listing struct {
	ID               string   `json:"id"`
	FormattedAddress string   `json:"formattedAddress"`
	AddressLine1     string   `json:"addressLine1"`
	AddressLine2     *string  `json:"addressLine2"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	ZipCode          string   `json:"zipCode"`
	County           string   `json:"county"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	PropertyType     string   `json:"propertyType"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *float64 `json:"bathrooms"`
	SquareFootage    *int     `json:"squareFootage"`
	LotSize          *int     `json:"lotSize"`
	YearBuilt        *int     `json:"yearBuilt"`
	Status           string   `json:"status"`
	Price            float64  `json:"price"`
	ListingType      string   `json:"listingType"`
	ListedDate       string   `json:"listedDate"`
	LastSeenDate     string   `json:"lastSeenDate"`
	DaysOnMarket     int      `json:"daysOnMarket"`
}

// Criteria holds the search parameters for a listings request
type Criteria struct {
	City    string
	State   string
	ZipCode string
	// PropertyType follows the classifieds convention: 1 apartment, 2 house
	PropertyType int
	MinPrice     int
	MaxPrice     int
	MinSurface   int
	MaxSurface   int
	Limit        int
}

// Options configures the adapter
type Options struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	Criteria     Criteria
	Placeholders []string
	Limiter      *ratelimit.Limiter
}

// ListingsAdapter fetches active sale listings from Rentcast
type ListingsAdapter struct {
	apiKey       string
	criteria     Criteria
	placeholders []string
	client       *resty.Client
	limiter      *ratelimit.Limiter
}

// NewListingsAdapter creates a new sale listings adapter
func NewListingsAdapter(opts Options) *ListingsAdapter {
	client := fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout).
		SetHeader("X-Api-Key", opts.APIKey)

	return &ListingsAdapter{
		apiKey:       opts.APIKey,
		criteria:     opts.Criteria,
		placeholders: opts.Placeholders,
		client:       client,
		limiter:      opts.Limiter,
	}
}

// Name implements fetcher.Adapter
func (a *ListingsAdapter) Name() string { return "rentcast" }

func (a *ListingsAdapter) params() map[string]string {
	c := a.criteria
	params := map[string]string{
		"status":       "Active",
		"propertyType": propertyType(c.PropertyType),
		// surface and price bounds are applied locally, over-fetch to compensate
		"limit": strconv.Itoa(max(c.Limit, 1) * 5),
	}
	if c.City != "" {
		params["city"] = c.City
	}
	if c.State != "" {
		params["state"] = c.State
	}
	if c.ZipCode != "" {
		params["zipCode"] = c.ZipCode
	}
	return params
}

// Fetch retrieves listings matching the criteria
func (a *ListingsAdapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	if fetcher.IsPlaceholderCredential(a.apiKey, a.placeholders) {
		return nil, fetcher.NewCredentialError("rentcast")
	}
	if err := a.limiter.Wait(ctx, ratelimit.APIRentcast); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(a.params()).
		Get("/listings/sale")

	body, err := fetcher.Body(resp, err)
	if err != nil {
		return nil, err
	}

	var listings []Listing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fetcher.NewMalformedError("decode rentcast listings: " + err.Error())
	}

	records := make([]domain.Record, 0, a.criteria.Limit)
	for _, l := range listings {
		if !a.matches(l) {
			continue
		}
		records = append(records, toRecord(l))
		if a.criteria.Limit > 0 && len(records) == a.criteria.Limit {
			break
		}
	}
	return records, nil
}

func (a *ListingsAdapter) matches(l Listing) bool {
	c := a.criteria
	if l.Price <= 0 {
		return false
	}
	if c.MinPrice > 0 && l.Price < float64(c.MinPrice) {
		return false
	}
	if c.MaxPrice > 0 && l.Price > float64(c.MaxPrice) {
		return false
	}

	if l.SquareFootage == nil {
		return c.MinSurface == 0 && c.MaxSurface == 0
	}
	surface := squareMeters(*l.SquareFootage)
	if c.MinSurface > 0 && surface < c.MinSurface {
		return false
	}
	if c.MaxSurface > 0 && surface > c.MaxSurface {
		return false
	}
	return true
}

func toRecord(l Listing) domain.ListingRecord {
	rec := domain.ListingRecord{
		Title:       fmt.Sprintf("%s · %s", l.PropertyType, l.AddressLine1),
		Price:       FormatPrice(l.Price),
		Location:    strings.TrimSpace(l.City + " " + l.ZipCode),
		Description: l.FormattedAddress,
		Posted:      posted(l.DaysOnMarket),
	}
	if l.SquareFootage != nil {
		rec.Surface = fmt.Sprintf("%dm²", squareMeters(*l.SquareFootage))
	}
	if l.Bedrooms != nil {
		rec.Rooms = rooms(*l.Bedrooms + 1)
	}
	return rec
}

func propertyType(t int) string {
	if t == 1 {
		return "Condo"
	}
	return "Single Family"
}

func squareMeters(sqft int) int {
	return int(math.Round(float64(sqft) * sqftToSquareMeters))
}

// rooms counts the living room alongside bedrooms, as French listings do
func rooms(n int) string {
	if n <= 1 {
		return "1 pièce"
	}
	return fmt.Sprintf("%d pièces", n)
}

func posted(days int) string {
	switch {
	case days <= 0:
		return "Aujourd'hui"
	case days == 1:
		return "Il y a 1 jour"
	case days < 7:
		return fmt.Sprintf("Il y a %d jours", days)
	case days < 14:
		return "Il y a 1 semaine"
	default:
		return fmt.Sprintf("Il y a %d semaines", days/7)
	}
}

// FormatPrice renders a whole amount with spaces between thousands,
// e.g. 295000 -> "295 000$"
func FormatPrice(price float64) string {
	digits := strconv.FormatInt(int64(math.Round(price)), 10)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	b.WriteString("$")
	return b.String()
}
