package fsa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL points at the public Food Standards Agency ratings API
const DefaultBaseURL = "https://api.ratings.food.gov.uk"

// pageSize is the maximum amount of establishments the API returns per page
const pageSize = 1000

// Establishment represents a single record of the FSA establishments endpoint
type Establishment struct {
	FHRSID         int64    `json:"FHRSID"`
	BusinessName   string   `json:"BusinessName"`
	BusinessType   string   `json:"BusinessType"`
	BusinessTypeID int      `json:"BusinessTypeID"`
	AddressLine1   string   `json:"AddressLine1"`
	AddressLine2   string   `json:"AddressLine2"`
	AddressLine3   string   `json:"AddressLine3"`
	AddressLine4   string   `json:"AddressLine4"`
	PostCode       string   `json:"PostCode"`
	RatingValue    string   `json:"RatingValue"`
	RatingKey      string   `json:"RatingKey"`
	Geocode        *Geocode `json:"geocode"`
}

// Geocode represents the coordinates of an establishment.
// The API serializes them as strings and omits them for records that were
// never geocoded.
type Geocode struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type establishmentsResponse struct {
	Establishments []*Establishment `json:"establishments"`
}

// Client consumes the v2 establishments endpoint of the FSA ratings API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new FSA API client.
// An empty base URL selects the public API endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// EstablishmentsByAuthority fetches every establishment of one local authority
// matching the given name search term, walking the paged endpoint until an
// empty page is returned
func (client *Client) EstablishmentsByAuthority(ctx context.Context, name string, authorityID int) ([]*Establishment, error) {
	all := []*Establishment{}
	for page := 1; ; page++ {
		establishments, err := client.establishmentsPage(ctx, name, authorityID, page)
		if err != nil {
			return nil, err
		}
		if len(establishments) == 0 {
			return all, nil
		}
		all = append(all, establishments...)
	}
}

func (client *Client) establishmentsPage(ctx context.Context, name string, authorityID, page int) ([]*Establishment, error) {
	endpoint := fmt.Sprintf(
		"%s/Establishments?name=%s&localAuthorityId=%d&pageSize=%d&pageNumber=%d",
		client.baseURL, url.QueryEscape(name), authorityID, pageSize, page,
	)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// The v2 API is selected through a header rather than the URL
	request.Header.Set("x-api-version", "2")
	request.Header.Set("accept", "application/json")

	response, err := client.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("the FSA API responded with status %d for authority %d", response.StatusCode, authorityID)
	}

	body := new(establishmentsResponse)
	if err := json.NewDecoder(response.Body).Decode(body); err != nil {
		return nil, err
	}
	return body.Establishments, nil
}
