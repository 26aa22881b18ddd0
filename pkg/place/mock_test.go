package place_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placery/pkg/coords"
	"placery/pkg/place"
)

func TestMockSearchLocation(t *testing.T) {
	c := place.NewMockClient()

	locations, err := c.SearchLocation(context.Background(), "天安门", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, locations)
	assert.True(t, strings.Contains(locations[0].Name, "天安门"))
}

func TestMockSearchLocationFallsBackToFixtures(t *testing.T) {
	c := place.NewMockClient()

	// The non-empty guarantee is a test convenience: an unmatchable keyword
	// still yields the first fixtures.
	locations, err := c.SearchLocation(context.Background(), "zzz-no-such-place", "", 3)
	require.NoError(t, err)
	assert.Len(t, locations, 3)
}

func TestMockSearchNearbySortedByDistance(t *testing.T) {
	c := place.NewMockClient()

	lat, lon := 39.9042, 116.4074 // Beijing
	locations, err := c.SearchNearby(context.Background(), lat, lon, "", 5000, 8)
	require.NoError(t, err)
	require.NotEmpty(t, locations)

	prev := -1.0
	for _, l := range locations {
		d := coords.Haversine(lat, lon, l.Latitude, l.Longitude)
		assert.GreaterOrEqual(t, d, prev, "results must be non-decreasing in distance")
		prev = d
	}

	assert.Contains(t, locations[0].Name, "天安门")
}

func TestMockReverseGeocode(t *testing.T) {
	c := place.NewMockClient()

	// A point on the Bund resolves to the nearest Shanghai fixture.
	result, err := c.ReverseGeocode(context.Background(), 31.2340, 121.4905)
	require.NoError(t, err)

	assert.Equal(t, "上海市", result.Province)
	assert.Equal(t, "外滩", result.POIName)
	assert.NotEmpty(t, result.Distance)
}

func TestMockHonorsContextCancellation(t *testing.T) {
	c := place.NewMockClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SearchLocation(ctx, "天安门", "", 10)
	assert.ErrorIs(t, err, context.Canceled)
}
