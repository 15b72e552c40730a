package rentcast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
)

const listingsBody = `[
	{
		"id": "1",
		"formattedAddress": "12 Ocean Dr, Miami, FL 33139",
		"addressLine1": "12 Ocean Dr",
		"city": "Miami",
		"state": "FL",
		"zipCode": "33139",
		"propertyType": "Single Family",
		"bedrooms": 1,
		"squareFootage": 450,
		"status": "Active",
		"price": 295000,
		"daysOnMarket": 2
	},
	{
		"id": "2",
		"formattedAddress": "40 Bay Rd, Miami, FL 33139",
		"addressLine1": "40 Bay Rd",
		"city": "Miami",
		"zipCode": "33139",
		"propertyType": "Single Family",
		"bedrooms": 4,
		"squareFootage": 2400,
		"price": 1250000,
		"daysOnMarket": 30
	},
	{
		"id": "3",
		"formattedAddress": "7 Palm Ave, Miami, FL 33139",
		"addressLine1": "7 Palm Ave",
		"city": "Miami",
		"zipCode": "33139",
		"propertyType": "Single Family",
		"squareFootage": 300,
		"price": 185000,
		"daysOnMarket": 9
	}
]`

func newTestAdapter(url, apiKey string, c Criteria) *ListingsAdapter {
	return NewListingsAdapter(Options{APIKey: apiKey, BaseURL: url, Criteria: c, Placeholders: fetcher.DefaultPlaceholders})
}

func TestListingsAdapter_Fetch_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listings/sale" {
			t.Errorf("path = %q, want /listings/sale", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test_key" {
			t.Errorf("X-Api-Key = %q, want test_key", r.Header.Get("X-Api-Key"))
		}
		q := r.URL.Query()
		if q.Get("city") != "Miami" || q.Get("state") != "FL" {
			t.Errorf("city/state = %q/%q, want Miami/FL", q.Get("city"), q.Get("state"))
		}
		if q.Get("propertyType") != "Single Family" {
			t.Errorf("propertyType = %q, want Single Family", q.Get("propertyType"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingsBody))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	a := newTestAdapter(server.URL, "test_key", Criteria{
		City: "Miami", State: "FL", PropertyType: 2,
		MaxPrice: 350000, MinSurface: 25, MaxSurface: 50, Limit: 4,
	})

	records, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0].(domain.ListingRecord)
	want := domain.ListingRecord{
		Title:       "Single Family · 12 Ocean Dr",
		Price:       "295 000$",
		Surface:     "42m²",
		Rooms:       "2 pièces",
		Location:    "Miami 33139",
		Description: "12 Ocean Dr, Miami, FL 33139",
		Posted:      "Il y a 2 jours",
	}
	if first != want {
		t.Errorf("records[0] = %+v, want %+v", first, want)
	}

	second := records[1].(domain.ListingRecord)
	if second.Rooms != "" || second.Surface != "28m²" || second.Posted != "Il y a 1 semaine" {
		t.Errorf("records[1] = %+v", second)
	}
}

func TestListingsAdapter_Fetch_Limit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingsBody))
	}))
	defer server.Close()

	records, err := newTestAdapter(server.URL, "test_key", Criteria{Limit: 1}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(records))
	}
}

func TestListingsAdapter_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind fetcher.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"invalid key"}`, fetcher.KindUpstreamHTTP},
		{"server error", http.StatusInternalServerError, `{}`, fetcher.KindUpstreamHTTP},
		{"object instead of list", http.StatusOK, `{"price": 1}`, fetcher.KindMalformed},
		{"invalid json", http.StatusOK, `invalid json`, fetcher.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestAdapter(server.URL, "test_key", Criteria{Limit: 4}).Fetch(context.Background())
			if got := fetcher.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %q, want %q (err: %v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestListingsAdapter_PlaceholderKey(t *testing.T) {
	_, err := newTestAdapter("http://localhost", "changeme", Criteria{}).Fetch(context.Background())
	if fetcher.KindOf(err) != fetcher.KindCredentialMissing {
		t.Errorf("KindOf(err) = %q, want %q", fetcher.KindOf(err), fetcher.KindCredentialMissing)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{950, "950$"},
		{185000, "185 000$"},
		{1250000.4, "1 250 000$"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.price); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}
