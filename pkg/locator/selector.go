package locator

import (
	"placery/pkg/coords"
	"placery/pkg/env"
	"placery/pkg/place"
)

// SelectProvider decides which provider serves a call. It is a pure function
// of the configuration and the optional query coordinates: the same inputs
// always yield the same provider.
//
// Precedence, first match wins:
//  1. a forced mode whose client is constructible (key present if required)
//  2. auto with coordinates: Amap inside the China box, else Google
//  3. Google if available, else Amap, else Nominatim
//
// A request is never failed purely for lack of an API key: Nominatim needs no
// key and closes every hole in the table.
func SelectProvider(cfg env.MapConfig, lat, lon float64, hasCoords bool) place.Provider {
	switch cfg.Mode {
	case env.ModeAmap:
		if cfg.HasAmap() {
			return place.ProviderAmap
		}
	case env.ModeGoogle:
		if cfg.HasGoogle() {
			return place.ProviderGoogle
		}
	case env.ModeNominatim:
		return place.ProviderNominatim
	case env.ModeMock:
		return place.ProviderMock
	}

	if cfg.Mode == env.ModeAuto && hasCoords {
		if coords.IsInsideChina(lat, lon) && cfg.HasAmap() {
			return place.ProviderAmap
		}
		if cfg.HasGoogle() {
			return place.ProviderGoogle
		}
	}

	switch {
	case cfg.HasGoogle():
		return place.ProviderGoogle
	case cfg.HasAmap():
		return place.ProviderAmap
	default:
		return place.ProviderNominatim
	}
}
