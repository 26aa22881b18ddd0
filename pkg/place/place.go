// package place defines the provider-neutral location model and the contract
// implemented by every geocoding provider client. Each client hides one wire
// protocol; callers only ever see LocationInfo and ReverseGeocodeResult.
package place

import (
	"context"
	"fmt"
)

// Provider identifies one of the supported geocoding backends.
type Provider string

const (
	ProviderAmap      Provider = "amap"
	ProviderGoogle    Provider = "google"
	ProviderNominatim Provider = "nominatim"
	ProviderMock      Provider = "mock"
)

// LocationInfo is a discovered place, normalized across providers. The
// coordinate system is implicit: GCJ02 when the Amap client produced it,
// WGS84 otherwise. The ID is only unique within one provider's result set.
type LocationInfo struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	FormattedAddress string  `json:"formatted_address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Distance         string  `json:"distance,omitempty"`
	Type             string  `json:"type,omitempty"`
	POIName          string  `json:"poi_name,omitempty"`
	Province         string  `json:"province,omitempty"`
	City             string  `json:"city,omitempty"`
	District         string  `json:"district,omitempty"`
	Street           string  `json:"street,omitempty"`
}

// ReverseGeocodeResult describes the administrative location of a single
// point. Distance, when set, is from the queried point to the nearest named
// POI.
type ReverseGeocodeResult struct {
	Address          string `json:"address"`
	FormattedAddress string `json:"formatted_address"`
	Province         string `json:"province"`
	City             string `json:"city"`
	District         string `json:"district"`
	Street           string `json:"street"`
	POIName          string `json:"poi_name,omitempty"`
	Distance         string `json:"distance,omitempty"`
}

// Client is the contract every provider implements. Each operation performs
// exactly one outbound HTTP round trip; there is no retry or caching at this
// layer.
type Client interface {
	SearchLocation(ctx context.Context, keyword, city string, pageSize int) ([]LocationInfo, error)
	SearchNearby(ctx context.Context, lat, lon float64, keywords string, radiusMeters, pageSize int) ([]LocationInfo, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseGeocodeResult, error)
}

// ProviderError means the remote service answered with a non-success status.
type ProviderError struct {
	Provider Provider
	Status   string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: provider returned status %q: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: provider returned status %q", e.Provider, e.Status)
}

// NetworkError means the round trip itself failed: timeout, DNS, connection.
type NetworkError struct {
	Provider Provider
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

const defaultPageSize = 10

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return defaultPageSize
	}
	return pageSize
}
