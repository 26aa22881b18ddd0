package place_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placery/pkg/place"
)

func TestGoogleSearchLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/textsearch/json", r.URL.Path)
		assert.Equal(t, "eiffel tower paris", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{
					"place_id": "ChIJLU7jZClu5kcR4PcOOO6p3I0",
					"name": "Eiffel Tower",
					"formatted_address": "Champ de Mars, 5 Av. Anatole France, 75007 Paris, France",
					"types": ["tourist_attraction", "point_of_interest"],
					"geometry": {"location": {"lat": 48.8583701, "lng": 2.2944813}}
				},
				{
					"place_id": "second",
					"name": "Second Result",
					"formatted_address": "Somewhere",
					"geometry": {"location": {"lat": 1, "lng": 2}}
				}
			]
		}`))
	}))
	defer srv.Close()

	c := place.NewGoogleClient(srv.Client(), srv.URL, "test-key")
	locations, err := c.SearchLocation(context.Background(), "eiffel tower", "paris", 1)
	require.NoError(t, err)

	// pageSize truncates client-side: the wire has no page parameter.
	require.Len(t, locations, 1)
	l := locations[0]
	assert.Equal(t, "ChIJLU7jZClu5kcR4PcOOO6p3I0", l.ID)
	assert.Equal(t, "Eiffel Tower", l.Name)
	assert.InDelta(t, 48.8583701, l.Latitude, 1e-9)
	assert.InDelta(t, 2.2944813, l.Longitude, 1e-9)
	assert.Equal(t, "tourist_attraction,point_of_interest", l.Type)
}

func TestGoogleSearchNearbyUsesVicinity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "48.858400,2.294500", r.URL.Query().Get("location"))
		assert.Equal(t, "500", r.URL.Query().Get("radius"))

		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"place_id": "p1", "name": "Café de Mars", "vicinity": "11 Rue Augereau, Paris", "geometry": {"location": {"lat": 48.857, "lng": 2.301}}}
			]
		}`))
	}))
	defer srv.Close()

	c := place.NewGoogleClient(srv.Client(), srv.URL, "test-key")
	locations, err := c.SearchNearby(context.Background(), 48.8584, 2.2945, "café", 500, 10)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "11 Rue Augereau, Paris", locations[0].Address)
}

func TestGoogleReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)

		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{
					"formatted_address": "5 Av. Anatole France, 75007 Paris, France",
					"address_components": [
						{"long_name": "Avenue Anatole France", "types": ["route"]},
						{"long_name": "Paris", "types": ["locality", "political"]},
						{"long_name": "Paris", "types": ["administrative_area_level_2", "political"]},
						{"long_name": "Île-de-France", "types": ["administrative_area_level_1", "political"]},
						{"long_name": "France", "types": ["country", "political"]}
					]
				}
			]
		}`))
	}))
	defer srv.Close()

	c := place.NewGoogleClient(srv.Client(), srv.URL, "test-key")
	result, err := c.ReverseGeocode(context.Background(), 48.8584, 2.2945)
	require.NoError(t, err)

	assert.Equal(t, "5 Av. Anatole France, 75007 Paris, France", result.FormattedAddress)
	assert.Equal(t, "Île-de-France", result.Province)
	assert.Equal(t, "Paris", result.City)
	assert.Equal(t, "Paris", result.District)
	assert.Equal(t, "Avenue Anatole France", result.Street)
}

func TestGoogleZeroResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	c := place.NewGoogleClient(srv.Client(), srv.URL, "test-key")
	locations, err := c.SearchLocation(context.Background(), "nowhere at all", "", 10)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestGoogleProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","results":[]}`))
	}))
	defer srv.Close()

	c := place.NewGoogleClient(srv.Client(), srv.URL, "bad-key")
	_, err := c.SearchLocation(context.Background(), "eiffel tower", "", 10)
	require.Error(t, err)

	var providerErr *place.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, place.ProviderGoogle, providerErr.Provider)
	assert.Equal(t, "REQUEST_DENIED", providerErr.Status)
}
