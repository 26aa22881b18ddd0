package place

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultNominatimBaseURL is the public OpenStreetMap Nominatim instance. It
// is rate-limited by usage policy, which also requires the descriptive
// User-Agent below.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

const nominatimUserAgent = "placery/1.0 (self-hosted geolocation facade)"

// NewNominatimClient creates a client for a Nominatim-style open geocoding
// service. It needs no API key and is the universal fallback provider.
func NewNominatimClient(h *http.Client, baseURL string) *osc {
	return &osc{h: h, baseURL: strings.TrimRight(baseURL, "/")}
}

type osc struct {
	h       *http.Client
	baseURL string
}

var _ Client = (*osc)(nil)

func (c *osc) SearchLocation(ctx context.Context, keyword, city string, pageSize int) ([]LocationInfo, error) {
	query := keyword
	if city != "" {
		query = fmt.Sprintf("%s %s", keyword, city)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(normalizePageSize(pageSize)))
	q.Set("addressdetails", "1")

	data, err := c.get(ctx, "/search", q)
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("parse nominatim response: %w", err)
	}

	locations := make([]LocationInfo, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}

		locations = append(locations, LocationInfo{
			ID:               strconv.FormatInt(p.PlaceID, 10),
			Name:             p.DisplayNameHead(),
			Address:          p.DisplayName,
			FormattedAddress: p.DisplayName,
			Latitude:         lat,
			Longitude:        lon,
			Type:             p.Type,
			Province:         p.Address.State,
			City:             p.Address.CityName(),
			District:         p.Address.Suburb,
			Street:           p.Address.Road,
		})
	}

	return locations, nil
}

// SearchNearby has no native radius-search primitive on Nominatim: it
// reverse-geocodes the exact point and returns it as a single "current
// location" entry. Callers must not assume multiple results from this
// provider.
func (c *osc) SearchNearby(ctx context.Context, lat, lon float64, keywords string, radiusMeters, pageSize int) ([]LocationInfo, error) {
	result, err := c.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	name := result.POIName
	if name == "" {
		name = result.Address
	}

	return []LocationInfo{{
		ID:               "current",
		Name:             name,
		Address:          result.Address,
		FormattedAddress: result.FormattedAddress,
		Latitude:         lat,
		Longitude:        lon,
		Province:         result.Province,
		City:             result.City,
		District:         result.District,
		Street:           result.Street,
	}}, nil
}

func (c *osc) ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseGeocodeResult, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	data, err := c.get(ctx, "/reverse", q)
	if err != nil {
		return nil, err
	}

	var p nominatimPlace
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse nominatim response: %w", err)
	}

	// A well-formed 200 can still carry a semantic failure, e.g.
	// {"error":"Unable to geocode"} for a point in the ocean.
	if p.Error != "" {
		return nil, &ProviderError{Provider: ProviderNominatim, Status: "error", Message: p.Error}
	}
	if p.DisplayName == "" {
		return nil, &ProviderError{Provider: ProviderNominatim, Status: "no result"}
	}

	district := p.Address.Suburb
	if district == "" {
		district = p.Address.County
	}

	return &ReverseGeocodeResult{
		Address:          p.DisplayName,
		FormattedAddress: p.DisplayName,
		Province:         p.Address.State,
		City:             p.Address.CityName(),
		District:         district,
		Street:           p.Address.Road,
		POIName:          p.Name,
	}, nil
}

// get performs one round trip through the shared client so the 10s timeout,
// caller cancellation and outbound logging apply, with the User-Agent the
// Nominatim usage policy requires.
func (c *osc) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	res, err := c.h.Do(req)
	if err != nil {
		return nil, &NetworkError{Provider: ProviderNominatim, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: ProviderNominatim, Status: res.Status}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{Provider: ProviderNominatim, Err: err}
	}

	return data, nil
}

type nominatimPlace struct {
	PlaceID     int64            `json:"place_id"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Class       string           `json:"class"`
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

func (p nominatimPlace) DisplayNameHead() string {
	if p.Name != "" {
		return p.Name
	}
	if i := strings.Index(p.DisplayName, ","); i > 0 {
		return p.DisplayName[:i]
	}
	return p.DisplayName
}

type nominatimAddress struct {
	Road    string `json:"road"`
	Suburb  string `json:"suburb"`
	County  string `json:"county"`
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// CityName picks the most city-like component; Nominatim uses city, town or
// village depending on the settlement size.
func (a nominatimAddress) CityName() string {
	switch {
	case a.City != "":
		return a.City
	case a.Town != "":
		return a.Town
	default:
		return a.Village
	}
}
