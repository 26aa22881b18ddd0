// package locator is the sole entry point for geographic queries. It picks a
// provider per call, delegates, and returns the provider's answer unmodified:
// exactly one provider answers exactly one call, with no re-ranking or
// merging.
package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"placery/pkg/env"
	"placery/pkg/place"
)

// ErrInvalidCoordinate is returned when a query carries coordinates outside
// the valid latitude/longitude ranges.
var ErrInvalidCoordinate = errors.New("latitude must be in [-90, 90] and longitude in [-180, 180]")

// Service is the geolocation facade. It owns zero-or-one instance of each
// provider client; a client exists only when its prerequisites are met. The
// service is stateless after construction and safe for concurrent use.
type Service struct {
	cfg     env.MapConfig
	clients map[place.Provider]place.Client
	h       *http.Client
}

// NewService wires the facade from the resolved configuration. Clients whose
// API key is missing are simply not constructed; Nominatim and the mock need
// none and always exist.
func NewService(cfg env.MapConfig, h *http.Client) *Service {
	clients := map[place.Provider]place.Client{
		place.ProviderNominatim: place.NewNominatimClient(h, cfg.NominatimBaseURL),
		place.ProviderMock:      place.NewMockClient(),
	}
	if cfg.HasAmap() {
		clients[place.ProviderAmap] = place.NewAmapClient(h, cfg.AmapBaseURL, cfg.AmapKey)
	}
	if cfg.HasGoogle() {
		clients[place.ProviderGoogle] = place.NewGoogleClient(h, cfg.GoogleBaseURL, cfg.GoogleKey)
	}

	return &Service{cfg: cfg, clients: clients, h: h}
}

// SearchLocation runs a free-text place search. Results are in the chosen
// provider's native relevance order.
func (s *Service) SearchLocation(ctx context.Context, keyword, city string, pageSize int) ([]place.LocationInfo, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("keyword cannot be empty")
	}

	provider, client := s.route(0, 0, false)
	slog.DebugContext(ctx, "search location", "provider", provider, "keyword", keyword)

	return client.SearchLocation(ctx, keyword, city, pageSize)
}

// SearchNearby runs a radius search around a point. When Nominatim serves the
// call it returns at most one result; see the client for the capability gap.
func (s *Service) SearchNearby(ctx context.Context, lat, lon float64, keywords string, radiusMeters, pageSize int) ([]place.LocationInfo, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	provider, client := s.route(lat, lon, true)
	slog.DebugContext(ctx, "search nearby", "provider", provider, "lat", lat, "lon", lon)

	return client.SearchNearby(ctx, lat, lon, keywords, radiusMeters, pageSize)
}

// ReverseGeocode resolves a point to an address/POI description.
func (s *Service) ReverseGeocode(ctx context.Context, lat, lon float64) (*place.ReverseGeocodeResult, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	provider, client := s.route(lat, lon, true)
	slog.DebugContext(ctx, "reverse geocode", "provider", provider, "lat", lat, "lon", lon)

	return client.ReverseGeocode(ctx, lat, lon)
}

// IPLocation approximates the caller's position from their IP address. It is
// the terminal fallback for callers with no device coordinates at all and
// never returns an error: any failure yields a zeroed location.
func (s *Service) IPLocation(ctx context.Context) place.LocationInfo {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.IPAPIBaseURL+"/json/", nil)
	if err != nil {
		return place.LocationInfo{}
	}

	res, err := s.h.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "ip location lookup failed", "error", err)
		return place.LocationInfo{}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		slog.WarnContext(ctx, "ip location lookup failed", "error", err)
		return place.LocationInfo{}
	}

	var d ipAPIResponse
	if err := json.Unmarshal(data, &d); err != nil {
		slog.WarnContext(ctx, "ip location response malformed", "error", err)
		return place.LocationInfo{}
	}

	name := strings.Join(nonEmptyStrings(d.City, d.Region, d.CountryName), ", ")
	return place.LocationInfo{
		ID:               "ip",
		Name:             name,
		Address:          name,
		FormattedAddress: name,
		Latitude:         d.Latitude,
		Longitude:        d.Longitude,
		Province:         d.Region,
		City:             d.City,
	}
}

// route resolves the provider for one call. The selector can only name
// providers whose client exists, except in forced-mock mode, so the map
// lookup always hits; Nominatim backstops the impossible miss.
func (s *Service) route(lat, lon float64, hasCoords bool) (place.Provider, place.Client) {
	provider := SelectProvider(s.cfg, lat, lon, hasCoords)
	if client, ok := s.clients[provider]; ok {
		return provider, client
	}
	return place.ProviderNominatim, s.clients[place.ProviderNominatim]
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("(%f, %f): %w", lat, lon, ErrInvalidCoordinate)
	}
	return nil
}

func nonEmptyStrings(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ipAPIResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
}
