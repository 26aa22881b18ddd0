package place

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultGoogleBaseURL is the production Google Maps web service endpoint.
const DefaultGoogleBaseURL = "https://maps.googleapis.com/maps/api"

// NewGoogleClient creates a client for the Google Maps Places and Geocoding
// APIs. Coordinates are WGS84.
func NewGoogleClient(h *http.Client, baseURL, apiKey string) *ggc {
	return &ggc{h: h, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type ggc struct {
	h       *http.Client
	baseURL string
	apiKey  string
}

var _ Client = (*ggc)(nil)

func (c *ggc) SearchLocation(ctx context.Context, keyword, city string, pageSize int) ([]LocationInfo, error) {
	query := keyword
	if city != "" {
		query = fmt.Sprintf("%s %s", keyword, city)
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("key", c.apiKey)

	var d googlePlacesResponse
	if err := c.get(ctx, "/place/textsearch/json", q, &d); err != nil {
		return nil, err
	}

	return truncate(c.toLocations(d.Results), pageSize), nil
}

func (c *ggc) SearchNearby(ctx context.Context, lat, lon float64, keywords string, radiusMeters, pageSize int) ([]LocationInfo, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("radius", fmt.Sprintf("%d", radiusMeters))
	if keywords != "" {
		q.Set("keyword", keywords)
	}
	q.Set("key", c.apiKey)

	var d googlePlacesResponse
	if err := c.get(ctx, "/place/nearbysearch/json", q, &d); err != nil {
		return nil, err
	}

	return truncate(c.toLocations(d.Results), pageSize), nil
}

func (c *ggc) ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseGeocodeResult, error) {
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("key", c.apiKey)

	var d googleGeocodeResponse
	if err := c.get(ctx, "/geocode/json", q, &d); err != nil {
		return nil, err
	}

	if len(d.Results) == 0 {
		return &ReverseGeocodeResult{}, nil
	}

	first := d.Results[0]
	result := &ReverseGeocodeResult{
		Address:          first.FormattedAddress,
		FormattedAddress: first.FormattedAddress,
	}

	for _, comp := range first.AddressComponents {
		switch {
		case hasType(comp.Types, "administrative_area_level_1"):
			result.Province = comp.LongName
		case hasType(comp.Types, "locality"):
			result.City = comp.LongName
		case hasType(comp.Types, "sublocality"), hasType(comp.Types, "administrative_area_level_2"):
			if result.District == "" {
				result.District = comp.LongName
			}
		case hasType(comp.Types, "route"):
			result.Street = comp.LongName
		}
	}

	return result, nil
}

func (c *ggc) get(ctx context.Context, path string, q url.Values, out googleResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build google request: %w", err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return &NetworkError{Provider: ProviderGoogle, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Provider: ProviderGoogle, Err: err}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse google response: %w", err)
	}

	// ZERO_RESULTS is a well-formed empty answer, not a failure.
	if status, msg := out.statusMessage(); status != "OK" && status != "ZERO_RESULTS" {
		return &ProviderError{Provider: ProviderGoogle, Status: status, Message: msg}
	}

	return nil
}

func (c *ggc) toLocations(results []googlePlace) []LocationInfo {
	locations := make([]LocationInfo, 0, len(results))
	for _, r := range results {
		address := r.FormattedAddress
		if address == "" {
			address = r.Vicinity
		}

		locations = append(locations, LocationInfo{
			ID:               r.PlaceID,
			Name:             r.Name,
			Address:          address,
			FormattedAddress: address,
			Latitude:         r.Geometry.Location.Lat,
			Longitude:        r.Geometry.Location.Lng,
			Type:             strings.Join(r.Types, ","),
		})
	}
	return locations
}

func truncate(locations []LocationInfo, pageSize int) []LocationInfo {
	pageSize = normalizePageSize(pageSize)
	if len(locations) > pageSize {
		return locations[:pageSize]
	}
	return locations
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

type googleResponse interface {
	statusMessage() (status, message string)
}

type googleStatus struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (s googleStatus) statusMessage() (string, string) { return s.Status, s.ErrorMessage }

type googlePlacesResponse struct {
	googleStatus
	Results []googlePlace `json:"results"`
}

type googlePlace struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Types            []string `json:"types"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type googleGeocodeResponse struct {
	googleStatus
	Results []struct {
		FormattedAddress  string `json:"formatted_address"`
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}
