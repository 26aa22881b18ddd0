package locator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placery/pkg/coords"
	"placery/pkg/env"
	"placery/pkg/locator"
)

func TestSearchLocationRejectsEmptyKeyword(t *testing.T) {
	svc := locator.NewService(env.MapConfig{Mode: env.ModeMock, NominatimBaseURL: "http://localhost:0"}, http.DefaultClient)

	_, err := svc.SearchLocation(context.Background(), "   ", "", 10)
	assert.Error(t, err)
}

func TestFacadeRejectsInvalidCoordinates(t *testing.T) {
	svc := locator.NewService(env.MapConfig{Mode: env.ModeMock, NominatimBaseURL: "http://localhost:0"}, http.DefaultClient)

	_, err := svc.SearchNearby(context.Background(), 91, 0, "", 1000, 10)
	assert.ErrorIs(t, err, locator.ErrInvalidCoordinate)

	_, err = svc.ReverseGeocode(context.Background(), 0, -181)
	assert.ErrorIs(t, err, locator.ErrInvalidCoordinate)
}

func TestFacadeDelegatesToMock(t *testing.T) {
	svc := locator.NewService(env.MapConfig{Mode: env.ModeMock, NominatimBaseURL: "http://localhost:0"}, http.DefaultClient)

	locations, err := svc.SearchLocation(context.Background(), "天安门", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, locations)
	assert.Contains(t, locations[0].Name, "天安门")
}

func TestReverseGeocodeRoundTripThroughAmap(t *testing.T) {
	// A China-interior point converted to GCJ02 and reverse geocoded through
	// the China provider resolves to the expected province. Smoke test, not
	// numeric equality.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/geocode/regeo", r.URL.Path)
		w.Write([]byte(`{"status":"1","info":"OK","regeocode":{
			"formatted_address":"北京市东城区东华门街道天安门",
			"addressComponent":{"province":"北京市","city":[],"district":"东城区","streetNumber":{"street":"东长安街"}},
			"pois":[],"aois":[{"name":"天安门广场"}]}}`))
	}))
	defer srv.Close()

	cfg := env.MapConfig{
		Mode:             env.ModeAuto,
		AmapKey:          "test-key",
		AmapBaseURL:      srv.URL,
		NominatimBaseURL: srv.URL,
	}
	svc := locator.NewService(cfg, srv.Client())

	gcjLat, gcjLon := coords.WGS84ToGCJ02(39.90923, 116.397428)
	result, err := svc.ReverseGeocode(context.Background(), gcjLat, gcjLon)
	require.NoError(t, err)

	assert.Equal(t, "北京市", result.Province)
	assert.Equal(t, "天安门广场", result.POIName)
}

func TestSearchNearbyWithoutKeysCollapsesToOneResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)
		w.Write([]byte(`{"place_id":1,"lat":"48.8584","lon":"2.2945","display_name":"Avenue Anatole France, Paris, France","address":{"road":"Avenue Anatole France","city":"Paris","state":"Île-de-France"}}`))
	}))
	defer srv.Close()

	cfg := env.MapConfig{Mode: env.ModeAuto, NominatimBaseURL: srv.URL}
	svc := locator.NewService(cfg, srv.Client())

	locations, err := svc.SearchNearby(context.Background(), 48.8584, 2.2945, "", 1000, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(locations), 1)
}

func TestIPLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/json/", r.URL.Path)
		w.Write([]byte(`{"latitude":40.4168,"longitude":-3.7038,"city":"Madrid","region":"Madrid","country_name":"Spain"}`))
	}))
	defer srv.Close()

	cfg := env.MapConfig{Mode: env.ModeAuto, NominatimBaseURL: srv.URL, IPAPIBaseURL: srv.URL}
	svc := locator.NewService(cfg, srv.Client())

	l := svc.IPLocation(context.Background())
	assert.InDelta(t, 40.4168, l.Latitude, 1e-9)
	assert.InDelta(t, -3.7038, l.Longitude, 1e-9)
	assert.Equal(t, "Madrid", l.City)
	assert.Equal(t, "Madrid, Madrid, Spain", l.Name)
}

func TestIPLocationNeverFails(t *testing.T) {
	testCases := []struct {
		desc  string
		setup func(t *testing.T) string
	}{
		{
			desc: "unreachable service",
			setup: func(t *testing.T) string {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
				srv.Close()
				return srv.URL
			},
		},
		{
			desc: "malformed payload",
			setup: func(t *testing.T) string {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`not json at all`))
				}))
				t.Cleanup(srv.Close)
				return srv.URL
			},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cfg := env.MapConfig{
				Mode:             env.ModeAuto,
				NominatimBaseURL: "http://localhost:0",
				IPAPIBaseURL:     tC.setup(t),
			}
			svc := locator.NewService(cfg, &http.Client{Timeout: time.Second})

			// The terminal fallback: a zeroed location, never an error.
			l := svc.IPLocation(context.Background())
			assert.Zero(t, l.Latitude)
			assert.Zero(t, l.Longitude)
		})
	}
}
