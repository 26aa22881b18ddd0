// package env resolves the process-wide map configuration from environment
// variables. It is read once at startup and immutable afterwards; changing a
// provider key means restarting the process.
//
// Absence of an API key never fails startup: it silently disables that
// provider, and the selector falls back to whatever remains.
package env

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"placery/pkg/place"
)

// ProviderMode is the MAP_PROVIDER setting: auto picks a provider per call
// from the query coordinates, the other values force a single provider.
type ProviderMode string

const (
	ModeAuto      ProviderMode = "auto"
	ModeAmap      ProviderMode = "amap"
	ModeGoogle    ProviderMode = "google"
	ModeNominatim ProviderMode = "nominatim"
	ModeMock      ProviderMode = "mock"
)

// MapConfig is the resolved configuration for the geolocation facade.
type MapConfig struct {
	Mode ProviderMode

	AmapKey   string
	GoogleKey string

	AmapBaseURL      string
	GoogleBaseURL    string
	NominatimBaseURL string
	IPAPIBaseURL     string
}

// HasAmap reports whether the Amap client can be constructed.
func (c MapConfig) HasAmap() bool { return c.AmapKey != "" }

// HasGoogle reports whether the Google client can be constructed.
func (c MapConfig) HasGoogle() bool { return c.GoogleKey != "" }

// LoadMapConfig reads the map configuration from the environment, loading a
// .env file first when one exists.
func LoadMapConfig() MapConfig {
	_ = godotenv.Load()

	return MapConfig{
		Mode:             parseMode(os.Getenv("MAP_PROVIDER")),
		AmapKey:          os.Getenv("AMAP_API_KEY"),
		GoogleKey:        os.Getenv("GOOGLE_MAPS_API_KEY"),
		AmapBaseURL:      getEnv("AMAP_BASE_URL", place.DefaultAmapBaseURL),
		GoogleBaseURL:    getEnv("GOOGLE_MAPS_BASE_URL", place.DefaultGoogleBaseURL),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", place.DefaultNominatimBaseURL),
		IPAPIBaseURL:     getEnv("IPAPI_BASE_URL", "https://ipapi.co"),
	}
}

func parseMode(s string) ProviderMode {
	switch ProviderMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAmap:
		return ModeAmap
	case ModeGoogle:
		return ModeGoogle
	case ModeNominatim:
		return ModeNominatim
	case ModeMock:
		return ModeMock
	default:
		return ModeAuto
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
